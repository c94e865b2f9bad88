package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kharcha/internal/analysis"
)

// Error kinds reported by the analyze endpoint so clients can render each
// failure differently.
const (
	kindNotExpenseRelated = "not_expense_related"
	kindInvalidSQL        = "invalid_sql"
	kindExecutionFailed   = "execution_failed"
	kindRemoteService     = "remote_service"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question := sanitizeInput(req.Question)
	if question == "" {
		writeError(w, http.StatusUnprocessableEntity, "question cannot be empty")
		return
	}

	records, err := s.service.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses for analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), question, s.apiKeyFor(r), records)
	if err != nil {
		s.writeAnalyzeError(w, r, result, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeAnalyzeError maps each pipeline failure to a status and kind. The
// diagnostics each error carries, raw and sanitized model text, the upstream
// HTTP status, the engine message and the generated SQL, all travel to the
// client so a failure is never reduced to an opaque message.
func (s *Server) writeAnalyzeError(w http.ResponseWriter, r *http.Request, result *analysis.Analysis, err error) {
	var sql string
	if result != nil {
		sql = result.SQL
	}

	var remoteErr *analysis.RemoteServiceError
	var invalidErr *analysis.InvalidSQLError
	var execErr *analysis.QueryExecutionError

	switch {
	case errors.Is(err, analysis.ErrEmptyQuestion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, analysis.ErrNotExpenseRelated):
		writeJSON(w, http.StatusOK, errorResponse{
			Error: err.Error(),
			Kind:  kindNotExpenseRelated,
		})

	case errors.As(err, &remoteErr):
		slog.ErrorContext(r.Context(), "Completion service failed",
			"status", remoteErr.StatusCode, "error", remoteErr.Err)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:  remoteErr.Error(),
			Kind:   kindRemoteService,
			Status: remoteErr.StatusCode,
		})

	case errors.As(err, &invalidErr):
		slog.WarnContext(r.Context(), "Model returned invalid SQL",
			"raw", invalidErr.Raw, "sanitized", invalidErr.Sanitized)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     invalidErr.Error(),
			Kind:      kindInvalidSQL,
			Raw:       invalidErr.Raw,
			Sanitized: invalidErr.Sanitized,
		})

	case errors.As(err, &execErr):
		slog.WarnContext(r.Context(), "Query execution failed",
			"sql", execErr.SQL, "error", execErr.Err)
		if sql == "" {
			sql = execErr.SQL
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: execErr.Error(),
			Kind:  kindExecutionFailed,
			SQL:   sql,
		})

	default:
		slog.ErrorContext(r.Context(), "Analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}
