package enums

// SyncStatus tracks the lifecycle of a sync run or push attempt.
// Transitions are Started -> Success | Failed, never reopened.
type SyncStatus string

const (
	SyncStatusStarted SyncStatus = "STARTED"
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusFailed  SyncStatus = "FAILED"
)

// String implements fmt.Stringer.
func (s SyncStatus) String() string {
	return string(s)
}

// Valid reports whether the value is a known status.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusStarted, SyncStatusSuccess, SyncStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status closes a run.
func (s SyncStatus) Terminal() bool {
	return s == SyncStatusSuccess || s == SyncStatusFailed
}
