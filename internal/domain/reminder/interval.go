// internal/domain/reminder/interval.go
package reminder

import "fmt"

// Unit is the granularity of a reminder interval.
type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

// Interval means "remind Value Units before the deadline".
type Interval struct {
	Value int  `json:"value"`
	Unit  Unit `json:"unit"`
}

// Valid reports whether the interval has a positive value and a known unit.
func (i Interval) Valid() bool {
	if i.Value <= 0 {
		return false
	}
	return i.Unit == UnitDays || i.Unit == UnitHours
}

// Hours normalises the interval to hours so intervals of either unit compare uniformly.
func (i Interval) Hours() float64 {
	if i.Unit == UnitDays {
		return float64(i.Value) * 24
	}
	return float64(i.Value)
}

// String renders the interval as "<value> <unit>", e.g. "3 days".
func (i Interval) String() string {
	return fmt.Sprintf("%d %s", i.Value, i.Unit)
}

// Schedule is an ordered list of intervals. Order is significant: matching walks it front to back.
type Schedule []Interval

// DefaultSchedule is used for forms with no usable configured schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		{Value: 7, Unit: UnitDays},
		{Value: 3, Unit: UnitDays},
		{Value: 1, Unit: UnitDays},
	}
}
