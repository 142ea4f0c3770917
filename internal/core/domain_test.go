package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{" 2024-12-31 ", true},
		{"2024-13-01", false},
		{"01.02.2024", false},
		{"", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error, got %s", i, d)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 6, 19)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-06-19"` {
		t.Fatalf("marshal = %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip = %s", back)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:          "t1",
		Amount:      100,
		Type:        Expense,
		CategoryID:  "food",
		Description: "groceries",
		Date:        NewDate(2024, 6, 1),
		CreatedAt:   time.Now(),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{func(tx *Transaction) { tx.CategoryID = "  " }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{func(tx *Transaction) { tx.Description = strings.Repeat("x", 201) }, ErrLongDescription},
	}
	for i, bad := range bads {
		tx := good
		bad.mutate(&tx)
		if err := tx.Validate(); err != bad.want {
			t.Fatalf("case %d: err = %v, want %v", i, err, bad.want)
		}
	}
}

func TestZeroAmountIsValid(t *testing.T) {
	tx := Transaction{Amount: 0, Type: Income, CategoryID: "salary", Date: NewDate(2024, 1, 1)}
	if err := tx.Validate(); err != nil {
		t.Fatalf("zero amount must validate, got %v", err)
	}
}
