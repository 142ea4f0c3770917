package core

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	for _, p := range Periods() {
		got, err := ParsePeriod(" " + string(p) + " ")
		if err != nil {
			t.Fatalf("ParsePeriod(%q): %v", p, err)
		}
		if got != p {
			t.Fatalf("ParsePeriod(%q) = %q", p, got)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestResolveStart(t *testing.T) {
	// Wednesday, 2024-06-19.
	now := time.Date(2024, 6, 19, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		period  Period
		want    Date
		bounded bool
	}{
		{PeriodDay, NewDate(2024, 6, 19), true},
		{PeriodWeek, NewDate(2024, 6, 17), true}, // Monday of the same week
		{PeriodMonth, NewDate(2024, 6, 1), true},
		{PeriodYear, NewDate(2024, 1, 1), true},
		{PeriodAll, Date{}, false},
	}
	for _, tt := range tests {
		start, bounded := ResolveStart(tt.period, now)
		if bounded != tt.bounded {
			t.Fatalf("%s: bounded = %v, want %v", tt.period, bounded, tt.bounded)
		}
		if bounded && !start.Equal(tt.want.Time) {
			t.Fatalf("%s: start = %s, want %s", tt.period, start, tt.want)
		}
	}
}

func TestResolveStartWeekStartsMonday(t *testing.T) {
	tests := []struct {
		now  time.Time
		want Date
	}{
		// Sunday belongs to the week that started the previous Monday.
		{time.Date(2024, 6, 23, 10, 0, 0, 0, time.UTC), NewDate(2024, 6, 17)},
		// Monday is its own week start.
		{time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), NewDate(2024, 6, 17)},
		// Week spanning a month boundary.
		{time.Date(2024, 7, 2, 8, 0, 0, 0, time.UTC), NewDate(2024, 7, 1)},
	}
	for i, tt := range tests {
		start, bounded := ResolveStart(PeriodWeek, tt.now)
		if !bounded {
			t.Fatalf("case %d: week must be bounded", i)
		}
		if !start.Equal(tt.want.Time) {
			t.Fatalf("case %d: start = %s, want %s", i, start, tt.want)
		}
	}
}
