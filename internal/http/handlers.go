package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type createTransactionRequest struct {
	Amount      int64                `json:"amount"`
	Type        core.TransactionType `json:"type"`
	CategoryID  string               `json:"categoryId"`
	Description string               `json:"description"`
	Date        core.Date            `json:"date"`
}

type preferenceRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleReport serves the aggregated view for one period. Reports are cached
// per user and period for a short window; any mutation drops the user's
// cached entries.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	raw := r.URL.Query().Get("period")
	if raw == "" {
		// Fall back to the user's saved selection, then to month.
		if saved, err := s.store.GetPreference(r.Context(), userID, store.PrefPeriod); err == nil && saved != "" {
			raw = saved
		} else {
			raw = string(core.PeriodMonth)
		}
	}

	period, err := core.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period: "+raw)
		return
	}

	key := s.reportCacheKey(userID, period)
	if report, ok := s.reportCache.Get(key); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.store.Report(r.Context(), userID, period, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report failed", "user_id", userID, "period", string(period), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	s.reportCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	txs, err := s.store.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.store.Add(r.Context(), userID, req.Amount, req.Type, req.CategoryID, req.Description, req.Date)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	s.invalidateReports(userID)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.store.Delete(r.Context(), userID, id); err != nil {
		slog.ErrorContext(r.Context(), "Delete failed", "user_id", userID, "transaction_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateReports(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	catalog := s.store.Catalog()

	if raw := r.URL.Query().Get("type"); raw != "" {
		typ := core.TransactionType(raw)
		if !typ.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid type: "+raw)
			return
		}
		writeJSON(w, http.StatusOK, catalog.ByType(typ))
		return
	}

	writeJSON(w, http.StatusOK, catalog.All())
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	txs := s.seeder.Generate()
	if err := s.store.Seed(r.Context(), userID, txs); err != nil {
		slog.ErrorContext(r.Context(), "Seed failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to seed demo data")
		return
	}

	s.invalidateReports(userID)
	writeJSON(w, http.StatusOK, map[string]int{"count": len(txs)})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	if err := s.store.Clear(r.Context(), userID); err != nil {
		slog.ErrorContext(r.Context(), "Clear failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear transactions")
		return
	}

	s.invalidateReports(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	key := r.URL.Query().Get("key")
	if !isPreferenceKey(key) {
		writeError(w, http.StatusBadRequest, "invalid preference key: "+key)
		return
	}

	value, err := s.store.GetPreference(r.Context(), userID, key)
	if err != nil {
		slog.ErrorContext(r.Context(), "Preference read failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read preference")
		return
	}
	writeJSON(w, http.StatusOK, preferenceRequest{Key: key, Value: value})
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	userID := s.userID(r)

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !isPreferenceKey(req.Key) {
		writeError(w, http.StatusBadRequest, "invalid preference key: "+req.Key)
		return
	}
	if req.Key == store.PrefPeriod && !core.Period(req.Value).IsValid() {
		writeError(w, http.StatusBadRequest, "invalid period: "+req.Value)
		return
	}

	s.store.SetPreference(r.Context(), userID, req.Key, req.Value)
	w.WriteHeader(http.StatusNoContent)
}

func isPreferenceKey(key string) bool {
	return key == store.PrefPeriod || key == store.PrefTheme
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrLongDescription)
}
