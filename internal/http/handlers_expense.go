package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

type expenseRequest struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      any    `json:"amount"`
	Description string `json:"description"`
	PaymentMode string `json:"paymentMode"`
}

func (req expenseRequest) toExpense() core.Expense {
	var amount float64
	switch v := req.Amount.(type) {
	case float64:
		amount = v
	case string:
		amount = core.AmountOrZero(v)
	}

	return core.Expense{
		Date:        sanitizeInput(req.Date),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		PaymentMode: sanitizeInput(req.PaymentMode),
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e := req.toExpense()
	if e.Date == "" {
		e.Date = time.Now().Format(core.DateLayout)
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	e.Normalize()

	id, err := s.service.CreateExpense(r.Context(), e)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	e.ID = id
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e := req.toExpense()
	e.ID = id
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	e.Normalize()

	if err := s.service.UpdateExpense(r.Context(), e); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Update expense failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.service.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete expense failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearExpenses(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Clear expenses failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear expenses")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleParseExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := sanitizeInput(req.Text)
	if text == "" {
		writeError(w, http.StatusUnprocessableEntity, "text cannot be empty")
		return
	}

	draft, err := s.parser.Parse(r.Context(), text, s.apiKeyFor(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse expense failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "could not understand the expense, try rephrasing")
		return
	}

	// A draft is returned for confirmation, not stored
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	g := core.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		g = core.Monthly
	}
	if !g.IsValid() {
		writeError(w, http.StatusBadRequest, "granularity must be daily, monthly or yearly")
		return
	}

	totals, err := s.service.Summarize(r.Context(), g)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	if totals == nil {
		totals = []core.PeriodTotal{}
	}

	writeJSON(w, http.StatusOK, struct {
		Granularity core.Granularity   `json:"granularity"`
		Periods     []core.PeriodTotal `json:"periods"`
	}{Granularity: g, Periods: totals})
}
