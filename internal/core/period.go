package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// Period is a symbolic time window used to filter transactions. The enum is
// closed: every aggregation path receives one of the five constants.
type Period string

// String implements fmt.Stringer.
func (p Period) String() string {
	return string(p)
}

// IsValid returns true if the period is one of the known selectors.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return true
	default:
		return false
	}
}

// ParsePeriod converts user input into a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// Periods returns all selectors in display order.
func Periods() []Period {
	return []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}
}

// ResolveStart computes the inclusive lower bound of the window containing now.
// The second return value is false for PeriodAll, which has no lower bound.
// No upper bound exists for any period: the window always extends through now,
// so future-dated transactions are never excluded.
func ResolveStart(p Period, now time.Time) (Date, bool) {
	today := DateOf(now)
	switch p {
	case PeriodDay:
		return today, true
	case PeriodWeek:
		// ISO week, Monday first. time.Weekday puts Sunday at 0.
		offset := (int(now.Weekday()) + 6) % 7
		return Date{Time: today.AddDate(0, 0, -offset)}, true
	case PeriodMonth:
		return NewDate(now.Year(), int(now.Month()), 1), true
	case PeriodYear:
		return NewDate(now.Year(), 1, 1), true
	default:
		return Date{}, false
	}
}
