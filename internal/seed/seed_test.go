package seed

import (
	"math/rand"
	"testing"
	"time"

	"fintrack/internal/core"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 19, 12, 0, 0, 0, time.UTC)
}

func TestGenerateCoversLastMonth(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)), fixedNow)
	txs := g.Generate()

	// 31 days with 2 to 5 expenses each plus income entries.
	if len(txs) < 31*2 {
		t.Fatalf("generated %d transactions, want at least %d", len(txs), 31*2)
	}

	oldest := core.DateOf(fixedNow().AddDate(0, 0, -30))
	newest := core.DateOf(fixedNow())
	for _, tx := range txs {
		if tx.Date.Before(oldest) || newest.Before(tx.Date) {
			t.Fatalf("transaction date %s outside [%s, %s]", tx.Date, oldest, newest)
		}
	}
}

func TestGenerateAllTransactionsValid(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(2)), fixedNow)
	catalog := core.DefaultCatalog()

	seen := map[string]bool{}
	for _, tx := range g.Generate() {
		if err := tx.Validate(); err != nil {
			t.Fatalf("invalid generated transaction %+v: %v", tx, err)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %s", tx.ID)
		}
		seen[tx.ID] = true
		if _, ok := catalog.ByID(tx.CategoryID); !ok {
			t.Fatalf("unknown category %q", tx.CategoryID)
		}
	}
}

func TestGenerateSalaryOnPaydays(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(3)), fixedNow)
	txs := g.Generate()

	var first, fifteenth bool
	for _, tx := range txs {
		if tx.CategoryID != "salary" {
			continue
		}
		switch {
		case tx.Date.Day() == 1 && tx.Amount == 85000:
			first = true
		case tx.Date.Day() == 15 && tx.Amount == 45000:
			fifteenth = true
		}
	}
	// The 31-day window always contains both paydays.
	if !first || !fifteenth {
		t.Fatalf("paydays missing: 1st=%v 15th=%v", first, fifteenth)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(42)), fixedNow).Generate()
	b := NewGenerator(rand.New(rand.NewSource(42)), fixedNow).Generate()

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		// IDs are random UUIDs; everything else must match.
		if a[i].Amount != b[i].Amount || a[i].CategoryID != b[i].CategoryID ||
			a[i].Description != b[i].Description || !a[i].Date.Equal(b[i].Date.Time) {
			t.Fatalf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
