package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"etp/internal/engine"
	applog "etp/internal/log"
)

// allowedExtensions lists the spreadsheet extensions the intake accepts.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

type triggerRequest struct {
	FileName string `json:"file_name"`
}

type expenseDTO struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Owner       string `json:"owner"`
}

type breakdownDTO struct {
	Category      string `json:"category"`
	Subtotal      string `json:"subtotal"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type notificationDTO struct {
	ID            string         `json:"id"`
	Recipient     string         `json:"recipient"`
	RecipientName string         `json:"recipient_name"`
	Total         string         `json:"total"`
	TotalCents    int64          `json:"total_cents"`
	Breakdown     []breakdownDTO `json:"breakdown"`
	ComposedAt    time.Time      `json:"composed_at"`
	Status        string         `json:"status"`
}

type logEntryDTO struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

type metricsDTO struct {
	TotalSpent          string `json:"total_spent"`
	TotalSpentCents     int64  `json:"total_spent_cents"`
	AveragePerUser      string `json:"average_per_user"`
	AveragePerUserCents int64  `json:"average_per_user_cents"`
	BatchesProcessed    int    `json:"batches_processed"`
	NotificationsSent   int    `json:"notifications_sent"`
	Processing          bool   `json:"processing"`
	Stage               string `json:"stage"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding JSON response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleSubmitFile accepts a file-selected trigger and starts a workflow run.
// The file content is never read; only the name matters.
func (s *Server) handleSubmitFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.FileName)
	if name == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "file name is required")
		return
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rejected file with unsupported extension", "file", name)
		writeJSONError(w, http.StatusUnprocessableEntity, "unsupported file type: expected .xlsx, .xls or .csv")
		return
	}

	if err := s.workflow.SubmitFile(r.Context(), name); err != nil {
		if errors.Is(err, engine.ErrBusy) {
			writeJSONError(w, http.StatusConflict, "a workflow run is already in progress")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to start workflow", "error", err, "file", name)
		writeJSONError(w, http.StatusInternalServerError, "failed to start workflow")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":    "accepted",
		"file_name": name,
	})
}

// handleReset clears the batch, notification history, stage log, and counters.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.workflow.Reset(r.Context()); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to reset workflow state", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to reset")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.workflow.Expenses(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to read expense batch", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to read expenses")
		return
	}

	out := make([]expenseDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, expenseDTO{
			ID:          rec.ID,
			Date:        rec.Date.Format("2006-01-02"),
			Category:    string(rec.Category),
			Description: rec.Description,
			Amount:      rec.Amount.String(),
			AmountCents: rec.Amount.Cents,
			Owner:       rec.Owner,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	notes, err := s.workflow.Notifications(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to read notifications", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to read notifications")
		return
	}

	out := make([]notificationDTO, 0, len(notes))
	for _, n := range notes {
		breakdown := make([]breakdownDTO, 0, len(n.Breakdown))
		for _, b := range n.Breakdown {
			breakdown = append(breakdown, breakdownDTO{
				Category:      string(b.Category),
				Subtotal:      b.Subtotal.String(),
				SubtotalCents: b.Subtotal.Cents,
			})
		}
		out = append(out, notificationDTO{
			ID:            n.ID,
			Recipient:     n.Recipient,
			RecipientName: n.RecipientName,
			Total:         n.Total.String(),
			TotalCents:    n.Total.Cents,
			Breakdown:     breakdown,
			ComposedAt:    n.ComposedAt,
			Status:        string(n.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries, err := s.workflow.Log(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to read stage log", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to read log")
		return
	}

	out := make([]logEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntryDTO{
			ID:        e.ID,
			Message:   e.Message,
			Timestamp: e.Timestamp,
			Status:    string(e.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": out})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	m, err := s.workflow.Metrics(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to read metrics", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to read metrics")
		return
	}

	writeJSON(w, http.StatusOK, metricsDTO{
		TotalSpent:          m.TotalSpent.String(),
		TotalSpentCents:     m.TotalSpent.Cents,
		AveragePerUser:      m.AveragePerUser.String(),
		AveragePerUserCents: m.AveragePerUser.Cents,
		BatchesProcessed:    m.BatchesProcessed,
		NotificationsSent:   m.NotificationsSent,
		Processing:          s.workflow.IsProcessing(),
		Stage:               string(s.workflow.Stage()),
	})
}
