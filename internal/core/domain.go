package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Date is a calendar date with no time component. The zero value is the
	// zero time; all non-zero Dates are normalized to midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is a single recorded money movement. It is immutable once
	// created: edits replace the record wholesale, never mutate it in place.
	Transaction struct {
		ID          string          `json:"id"`
		Amount      int64           `json:"amount"` // whole currency units, always >= 0
		Type        TransactionType `json:"type"`
		CategoryID  string          `json:"categoryId"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrLongDescription = errors.New("description too long (max 200 characters)")
)

// IsValid reports whether t is one of the two known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// OnOrAfter reports whether d falls on other's calendar day or a later one.
func (d Date) OnOrAfter(other Date) bool {
	return !d.Time.Before(other.Time)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return Date{Time: d.AddDate(0, 0, 1)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON encodes the date as a bare YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (tx Transaction) Validate() error {
	if tx.Amount < 0 {
		return ErrInvalidAmount
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if len(tx.Description) > 200 {
		return ErrLongDescription
	}
	return tx.Date.Validate()
}
