package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

func TestNextFireHourly(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 25, 0, 0, time.UTC)
	schedule := models.SyncSchedule{Frequency: enums.ScheduleFrequencyHourly}

	assert.Equal(t, now.Add(time.Hour), NextFire(schedule, now))
}

func TestNextFireDaily(t *testing.T) {
	schedule := models.SyncSchedule{Frequency: enums.ScheduleFrequencyDaily, Hour: 6}

	// Before the configured hour: fires today.
	now := time.Date(2026, 2, 10, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 10, 6, 0, 0, 0, time.UTC), NextFire(schedule, now))

	// After the configured hour: fires tomorrow.
	now = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 11, 6, 0, 0, 0, time.UTC), NextFire(schedule, now))

	// Exactly at the configured hour: strictly after means tomorrow.
	now = time.Date(2026, 2, 10, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 11, 6, 0, 0, 0, time.UTC), NextFire(schedule, now))
}

func TestNextFireWeeklyPinnedToMonday(t *testing.T) {
	schedule := models.SyncSchedule{Frequency: enums.ScheduleFrequencyWeekly, Hour: 6}

	// 2026-02-10 is a Tuesday; next Monday is the 16th.
	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 16, 6, 0, 0, 0, time.UTC), NextFire(schedule, now))

	// Monday before the hour fires the same day.
	now = time.Date(2026, 2, 16, 4, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 16, 6, 0, 0, 0, time.UTC), NextFire(schedule, now))

	// Monday after the hour waits a full week.
	now = time.Date(2026, 2, 16, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 23, 6, 0, 0, 0, time.UTC), NextFire(schedule, now))
}

func TestNextFireCustomInterval(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

	schedule := models.SyncSchedule{Frequency: enums.ScheduleFrequencyCustom, CustomIntervalMinutes: 45}
	assert.Equal(t, now.Add(45*time.Minute), NextFire(schedule, now))

	// A zero interval falls back to one hour.
	schedule.CustomIntervalMinutes = 0
	assert.Equal(t, now.Add(time.Hour), NextFire(schedule, now))
}

func TestNextFireUnknownFrequencyFallsBackDaily(t *testing.T) {
	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	schedule := models.SyncSchedule{Frequency: enums.ScheduleFrequency("BOGUS")}

	assert.Equal(t, now.Add(24*time.Hour), NextFire(schedule, now))
}
