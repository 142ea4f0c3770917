package http

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/seed"
	"fintrack/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.New(backend.NewMemoryStore(), nil, core.DefaultCatalog())
	gen := seed.NewGenerator(rand.New(rand.NewSource(1)), time.Now)
	s := NewServer(":0", st, gen, "local")
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func doRequest(s *Server, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateListDeleteRoundtrip(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"amount":      1500,
		"type":        "expense",
		"categoryId":  "food",
		"description": "Пятёрочка",
		"date":        "2024-06-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}

	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Amount != 1500 {
		t.Fatalf("created = %+v", created)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var listed []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("listed = %+v", listed)
	}

	rec = doRequest(s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions", nil)
	var after []core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &after)
	if len(after) != 0 {
		t.Fatalf("after delete = %+v", after)
	}
}

func TestCreateRejectsInvalidBody(t *testing.T) {
	s := newTestServer(t)

	cases := []map[string]any{
		{"amount": 0, "type": "expense", "categoryId": "food"},
		{"amount": 100, "type": "transfer", "categoryId": "food"},
		{"amount": 100, "type": "expense", "categoryId": ""},
	}
	for i, body := range cases {
		rec := doRequest(s, http.MethodPost, "/api/transactions", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400 (body %s)", i, rec.Code, rec.Body)
		}
	}
}

func TestReportEndpoint(t *testing.T) {
	s := newTestServer(t)

	doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 1000, "type": "income", "categoryId": "salary", "date": core.DateOf(time.Now()).String(),
	})
	doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 400, "type": "expense", "categoryId": "food", "date": core.DateOf(time.Now()).String(),
	})

	rec := doRequest(s, http.MethodGet, "/api/report?period=month", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report = %d, body %s", rec.Code, rec.Body)
	}

	var report core.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Stats.TotalIncome != 1000 || report.Stats.TotalExpense != 400 {
		t.Fatalf("stats = %+v", report.Stats)
	}
	if report.TotalBalance != 600 {
		t.Fatalf("totalBalance = %d", report.TotalBalance)
	}
}

func TestReportRejectsInvalidPeriod(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/report?period=decade", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReportCacheInvalidatedByMutation(t *testing.T) {
	s := newTestServer(t)
	today := core.DateOf(time.Now()).String()

	rec := doRequest(s, http.MethodGet, "/api/report?period=all", nil)
	var before core.Report
	json.Unmarshal(rec.Body.Bytes(), &before)
	if before.Stats.TransactionCount != 0 {
		t.Fatalf("initial count = %d", before.Stats.TransactionCount)
	}

	doRequest(s, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 100, "type": "expense", "categoryId": "food", "date": today,
	})

	rec = doRequest(s, http.MethodGet, "/api/report?period=all", nil)
	var after core.Report
	json.Unmarshal(rec.Body.Bytes(), &after)
	if after.Stats.TransactionCount != 1 {
		t.Fatalf("count after mutation = %d, want 1 (stale cache?)", after.Stats.TransactionCount)
	}
}

func TestSeedAndClear(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/seed", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed = %d", rec.Code)
	}
	var result map[string]int
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result["count"] < 31*2 {
		t.Fatalf("seeded %d transactions, want at least %d", result["count"], 31*2)
	}

	rec = doRequest(s, http.MethodPost, "/api/clear", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/api/transactions", nil)
	var listed []core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Fatalf("listed after clear = %d", len(listed))
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("categories = %d", rec.Code)
	}
	var all []core.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("no categories returned")
	}

	rec = doRequest(s, http.MethodGet, "/api/categories?type=income", nil)
	var income []core.Category
	json.Unmarshal(rec.Body.Bytes(), &income)
	for _, c := range income {
		if c.Type != core.Income {
			t.Fatalf("category %q has type %q", c.ID, c.Type)
		}
	}

	rec = doRequest(s, http.MethodGet, "/api/categories?type=loan", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid type = %d, want 400", rec.Code)
	}
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/api/preferences", map[string]string{"key": "period", "value": "week"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("set = %d, body %s", rec.Code, rec.Body)
	}
	s.store.Wait()

	rec = doRequest(s, http.MethodGet, "/api/preferences?key=period", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	var pref preferenceRequest
	json.Unmarshal(rec.Body.Bytes(), &pref)
	if pref.Value != "week" {
		t.Fatalf("value = %q, want week", pref.Value)
	}

	rec = doRequest(s, http.MethodPut, "/api/preferences", map[string]string{"key": "period", "value": "decade"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid period value = %d, want 400", rec.Code)
	}
	rec = doRequest(s, http.MethodPut, "/api/preferences", map[string]string{"key": "font", "value": "mono"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid key = %d, want 400", rec.Code)
	}
}
