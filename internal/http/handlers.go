package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"guardian/internal/core"
	"guardian/internal/storage"
)

const maxBodyBytes = 64 * 1024

type (
	setGoalRequest struct {
		UserID       string  `json:"user_id"`
		Title        string  `json:"title"`
		Target       string  `json:"target"`
		DeadlineDays *int    `json:"deadline_days,omitempty"`
		MonthBudget  *string `json:"month_budget,omitempty"`
	}

	goalResponse struct {
		ID          string  `json:"id"`
		UserID      string  `json:"user_id"`
		Title       string  `json:"title"`
		Target      string  `json:"target"`
		Current     string  `json:"current"`
		Progress    float64 `json:"progress_pct"`
		Deadline    *string `json:"deadline,omitempty"`
		MonthBudget *string `json:"month_budget,omitempty"`
		Status      string  `json:"status"`
	}

	addTransactionRequest struct {
		UserID   string `json:"user_id"`
		Amount   string `json:"amount"`
		Merchant string `json:"merchant"`
		Category string `json:"category"`
	}

	addTransactionResponse struct {
		TransactionID string                   `json:"transaction_id"`
		Verdict       core.NotificationPayload `json:"verdict"`
		Message       string                   `json:"message"`
	}

	statusResponse struct {
		Tier       core.Tier `json:"tier"`
		Label      string    `json:"label"`
		GoalTitle  string    `json:"goal_title,omitempty"`
		TotalSpent string    `json:"total_spent"`
		Budget     string    `json:"budget"`
		Remaining  string    `json:"remaining"`
		Target     string    `json:"target"`
		Message    string    `json:"message"`
	}

	spendingResponse struct {
		Year         int               `json:"year"`
		Month        int               `json:"month"`
		NonEssential string            `json:"non_essential_total"`
		ByCategory   map[string]string `json:"by_category"`
		Count        int               `json:"transaction_count"`
		Budget       *string           `json:"budget,omitempty"`
		Remaining    *string           `json:"remaining,omitempty"`
	}

	chatRequest struct {
		UserID  string `json:"user_id"`
		Message string `json:"message"`
	}

	chatResponse struct {
		Reply  string `json:"reply"`
		Intent string `json:"intent"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req setGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, err := parseMoney(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target amount")
		return
	}
	var monthBudget *core.Money
	if req.MonthBudget != nil {
		mb, err := parseMoney(*req.MonthBudget)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month budget")
			return
		}
		monthBudget = &mb
	}

	goal, err := s.guardian.SetGoal(r.Context(), req.UserID, req.Title, target, req.DeadlineDays, monthBudget)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.statusCache.Delete(goal.UserID)
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req addTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	result, err := s.guardian.RecordTransaction(r.Context(), req.UserID, amount, req.Merchant, req.Category)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.statusCache.Delete(result.Transaction.UserID)
	writeJSON(w, http.StatusCreated, addTransactionResponse{
		TransactionID: result.Transaction.ID,
		Verdict:       result.Notification.Payload,
		Message:       result.Notification.Text,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	verdict, ok := s.statusCache.Get(userID)
	if !ok {
		var err error
		verdict, err = s.guardian.CheckStatus(r.Context(), userID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.statusCache.Set(userID, verdict)
	} else {
		slog.DebugContext(r.Context(), "Status cache hit", "user_id", userID)
	}

	notification := core.ComposeNotification(verdict, nil)
	writeJSON(w, http.StatusOK, statusResponse{
		Tier:       verdict.Tier,
		Label:      verdict.Label,
		GoalTitle:  verdict.GoalTitle,
		TotalSpent: verdict.TotalSpent.String(),
		Budget:     verdict.Budget.String(),
		Remaining:  verdict.Remaining.String(),
		Target:     verdict.Target.String(),
		Message:    notification.Text,
	})
}

func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	analysis, err := s.guardian.AnalyzeSpending(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := spendingResponse{
		Year:         analysis.Summary.Year,
		Month:        analysis.Summary.Month,
		NonEssential: analysis.Summary.NonEssential.String(),
		ByCategory:   make(map[string]string, len(analysis.Summary.ByCategory)),
		Count:        analysis.Summary.Count,
	}
	for cat, amount := range analysis.Summary.ByCategory {
		resp.ByCategory[string(cat)] = amount.String()
	}
	if analysis.Budget != nil {
		b := analysis.Budget.String()
		resp.Budget = &b
	}
	if analysis.Remaining != nil {
		rem := analysis.Remaining.String()
		resp.Remaining = &rem
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.chatter == nil {
		writeError(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}

	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.chatter.ProcessMessage(r.Context(), req.UserID, req.Message)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Reply:  reply.Text,
		Intent: string(reply.Intent),
	})
}

func toGoalResponse(g core.Goal) goalResponse {
	resp := goalResponse{
		ID:       g.ID,
		UserID:   g.UserID,
		Title:    g.Title,
		Target:   g.Target.String(),
		Current:  g.Current.String(),
		Progress: g.ProgressPercentage(),
		Status:   string(g.Status),
	}
	if g.Deadline != nil {
		d := g.Deadline.UTC().Format(time.RFC3339)
		resp.Deadline = &d
	}
	if g.MonthBudget != nil {
		mb := g.MonthBudget.String()
		resp.MonthBudget = &mb
	}
	return resp
}

func parseMoney(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(s))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP statuses: validation
// failures are the caller's fault, an unknown user is 404, everything
// else is a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyMerchant),
		errors.Is(err, core.ErrEmptyUserID),
		errors.Is(err, core.ErrTitleTooLong),
		errors.Is(err, core.ErrMerchantTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
