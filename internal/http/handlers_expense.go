package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"outlay/internal/core"
	"outlay/internal/export"
	"outlay/internal/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today string
	}{
		Today: time.Now().Format(core.DateLayout),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCreateExpense ingests the structured form.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	draft := core.Draft{
		Item:     sanitizeInput(r.Form.Get("item")),
		Amount:   amount,
		Category: sanitizeInput(r.Form.Get("category")),
		Date:     sanitizeInput(r.Form.Get("date")),
	}
	if draft.Date == "" {
		draft.Date = time.Now().Format(core.DateLayout)
	}

	e, err := s.svc.Create(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			UnprocessableEntityError("Invalid expense: " + err.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Expense create error", "error", err, "item", draft.Item)
		InternalServerError("Could not save expense").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerExpenseCreated(e.Date).
		TriggerFormReset().
		TriggerSuccessNotification("Saved " + e.Item + " (" + formatAmount(e.Amount) + ")").
		BodyHTML(`<div class="success">Saved ` + template.HTMLEscapeString(e.Item) +
			` - ` + formatAmount(e.Amount) +
			` (` + template.HTMLEscapeString(e.Category) + `)</div>`).
		Write(w)
}

// handleQuickAdd ingests a single free-text line, from a form field or a
// JSON body.
func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	line := parser.Get("q")

	e, err := s.svc.CreateQuick(r.Context(), line)
	if err != nil {
		if isValidationError(err) {
			UnprocessableEntityError("Could not parse expense line").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Quick add error", "error", err)
		InternalServerError("Could not save expense").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerExpenseCreated(e.Date).
		TriggerFormReset().
		BodyHTML(`<div class="success">Saved ` + template.HTMLEscapeString(e.Item) +
			` - ` + formatAmount(e.Amount) +
			` (` + template.HTMLEscapeString(e.Category) + `)</div>`).
		Write(w)
}

// handleDeleteExpense removes one expense by id.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}
		id = sanitizeInput(r.Form.Get("id"))
	}
	if id == "" {
		BadRequestError("Missing expense id").Write(w)
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError("Expense not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id)
		InternalServerError("Could not delete expense").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerExpenseDeleted(id).
		BodyHTML(`<div class="success">Expense deleted</div>`).
		Write(w)
}

// handleExportCSV streams the collection as a CSV download, most recent
// date first.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export list error", "error", err)
		http.Error(w, "could not export expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := export.WriteCSV(w, expenses); err != nil {
		slog.ErrorContext(r.Context(), "Export write error", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if _, err := s.svc.Version(r.Context()); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["cache"] = map[string]any{
		"summary_entries":  s.summaryCache.Size(),
		"calendar_entries": s.calendarCache.Size(),
		"status":           "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}

// isValidationError reports whether err comes from draft validation or the
// quick-add parser, as opposed to an infrastructure failure.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyItem) ||
		errors.Is(err, core.ErrEmptyCategory)
}
