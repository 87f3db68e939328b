package reminder

import (
	"testing"
	"time"
)

func TestMatch_DefaultSchedule(t *testing.T) {
	tests := []struct {
		name           string
		hoursRemaining float64
		want           Interval
		wantOK         bool
	}{
		{name: "inside 7 day window", hoursRemaining: 167, want: Interval{7, UnitDays}, wantOK: true},
		{name: "exactly 7 days", hoursRemaining: 168, want: Interval{7, UnitDays}, wantOK: true},
		{name: "just over 7 days", hoursRemaining: 168.01, wantOK: false},
		{name: "lower edge of 7 day window excluded", hoursRemaining: 166, wantOK: false},
		{name: "just above lower edge", hoursRemaining: 166.01, want: Interval{7, UnitDays}, wantOK: true},
		{name: "between windows", hoursRemaining: 100, wantOK: false},
		{name: "inside 3 day window", hoursRemaining: 71.5, want: Interval{3, UnitDays}, wantOK: true},
		{name: "inside 1 day window", hoursRemaining: 23, want: Interval{1, UnitDays}, wantOK: true},
		{name: "close to deadline", hoursRemaining: 1, wantOK: false},
		{name: "deadline passed", hoursRemaining: -5, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.hoursRemaining, DefaultSchedule(), DefaultTolerance)
			if ok != tt.wantOK {
				t.Fatalf("Match(%v) ok = %v, want %v", tt.hoursRemaining, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Match(%v) = %v, want %v", tt.hoursRemaining, got, tt.want)
			}
		})
	}
}

func TestMatch_IsIdempotent(t *testing.T) {
	schedule := Schedule{{Value: 3, Unit: UnitDays}, {Value: 12, Unit: UnitHours}}
	first, ok1 := Match(11.5, schedule, DefaultTolerance)
	second, ok2 := Match(11.5, schedule, DefaultTolerance)
	if first != second || ok1 != ok2 {
		t.Errorf("Match not deterministic: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
}

func TestMatch_FirstMatchWinsOnOverlap(t *testing.T) {
	schedule := Schedule{{Value: 25, Unit: UnitHours}, {Value: 1, Unit: UnitDays}}

	got, ok := Match(23.5, schedule, DefaultTolerance)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != (Interval{Value: 25, Unit: UnitHours}) {
		t.Errorf("Match() = %v, want the earlier entry", got)
	}

	reversed := Schedule{{Value: 1, Unit: UnitDays}, {Value: 25, Unit: UnitHours}}
	got, _ = Match(23.5, reversed, DefaultTolerance)
	if got != (Interval{Value: 1, Unit: UnitDays}) {
		t.Errorf("Match() on reversed schedule = %v, want 1 days", got)
	}
}

func TestMatch_CustomTolerance(t *testing.T) {
	schedule := Schedule{{Value: 1, Unit: UnitDays}}
	if _, ok := Match(20, schedule, 6*time.Hour); !ok {
		t.Error("20h remaining should match 1 day with 6h tolerance")
	}
	if _, ok := Match(20, schedule, time.Hour); ok {
		t.Error("20h remaining should not match 1 day with 1h tolerance")
	}
	if _, ok := Match(24, schedule, 0); ok {
		t.Error("zero tolerance is an empty window")
	}
}

func TestHoursUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := HoursUntil(now.Add(90*time.Minute), now); got != 1.5 {
		t.Errorf("HoursUntil = %v, want 1.5", got)
	}
	if got := HoursUntil(now.Add(-time.Hour), now); got != -1 {
		t.Errorf("HoursUntil past = %v, want -1", got)
	}
}
