package enums

// TriggerSource records whether a sync run was requested by an operator
// or fired by the scheduler.
type TriggerSource string

const (
	TriggerSourceManual    TriggerSource = "manual"
	TriggerSourceScheduled TriggerSource = "scheduled"
)

// String implements fmt.Stringer.
func (t TriggerSource) String() string {
	return string(t)
}
