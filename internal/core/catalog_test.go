package core

import "testing"

func TestDefaultCatalogPartition(t *testing.T) {
	catalog := DefaultCatalog()

	expenses := catalog.ByType(Expense)
	income := catalog.ByType(Income)
	if len(expenses) != 12 {
		t.Fatalf("expense categories = %d, want 12", len(expenses))
	}
	if len(income) != 6 {
		t.Fatalf("income categories = %d, want 6", len(income))
	}
	// A category has exactly one type, so the partitions cover the catalog.
	if len(expenses)+len(income) != len(catalog.All()) {
		t.Fatalf("partition does not cover catalog")
	}
	for _, c := range expenses {
		if c.Type != Expense {
			t.Fatalf("category %s leaked into expense partition", c.ID)
		}
	}
}

func TestCatalogResolveFallback(t *testing.T) {
	catalog := DefaultCatalog()

	known := catalog.Resolve("salary")
	if known.Name != "Зарплата" || known.Type != Income {
		t.Fatalf("salary resolved to %+v", known)
	}

	unknown := catalog.Resolve("deleted_cat")
	if unknown.Name != "deleted_cat" {
		t.Fatalf("fallback name = %q, want raw id", unknown.Name)
	}
	if unknown.Color != "#999" || unknown.Icon != "📦" {
		t.Fatalf("fallback attributes = %+v", unknown)
	}
}

func TestCatalogUniqueIDs(t *testing.T) {
	catalog := NewCatalog([]Category{
		{ID: "a", Name: "first", Type: Expense},
		{ID: "a", Name: "duplicate", Type: Expense},
		{ID: "b", Name: "second", Type: Income},
	})
	if len(catalog.All()) != 2 {
		t.Fatalf("catalog kept %d categories, want 2", len(catalog.All()))
	}
	got, ok := catalog.ByID("a")
	if !ok || got.Name != "first" {
		t.Fatalf("first occurrence must win, got %+v", got)
	}
}
