package schedule

import (
	"time"

	"github.com/greenplains/sapbridge-backend/pkg/db/models"
	"github.com/greenplains/sapbridge-backend/pkg/enums"
)

const fallbackInterval = 24 * time.Hour

// NextFire computes when the schedule should fire next, strictly after
// now. Interval frequencies anchor on now; cron-style frequencies anchor
// on the configured hour with minutes zeroed. WEEKLY is pinned to Monday.
func NextFire(schedule models.SyncSchedule, now time.Time) time.Time {
	switch schedule.Frequency {
	case enums.ScheduleFrequencyHourly:
		return now.Add(time.Hour)
	case enums.ScheduleFrequencyDaily:
		return nextDailyAt(now, schedule.Hour)
	case enums.ScheduleFrequencyWeekly:
		return nextWeekdayAt(now, time.Monday, schedule.Hour)
	case enums.ScheduleFrequencyCustom:
		minutes := schedule.CustomIntervalMinutes
		if minutes <= 0 {
			minutes = 60
		}
		return now.Add(time.Duration(minutes) * time.Minute)
	default:
		return now.Add(fallbackInterval)
	}
}

func nextDailyAt(now time.Time, hour int) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

func nextWeekdayAt(now time.Time, weekday time.Weekday, hour int) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
	fire = fire.AddDate(0, 0, daysAhead)
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 7)
	}
	return fire
}
