package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"etp/internal/core"
	"etp/internal/engine"
)

type fakeWorkflow struct {
	submitErr     error
	resetErr      error
	submitted     []string
	resets        int
	expenses      []core.ExpenseRecord
	notifications []core.Notification
	log           []core.LogEntry
	metrics       engine.Metrics
	processing    bool
	stage         engine.Stage
}

func (f *fakeWorkflow) SubmitFile(_ context.Context, name string) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, name)
	return nil
}

func (f *fakeWorkflow) Reset(context.Context) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	return nil
}

func (f *fakeWorkflow) Expenses(context.Context) ([]core.ExpenseRecord, error) {
	return f.expenses, nil
}

func (f *fakeWorkflow) Notifications(context.Context) ([]core.Notification, error) {
	return f.notifications, nil
}

func (f *fakeWorkflow) Log(context.Context) ([]core.LogEntry, error) {
	return f.log, nil
}

func (f *fakeWorkflow) Metrics(context.Context) (engine.Metrics, error) {
	return f.metrics, nil
}

func (f *fakeWorkflow) Stage() engine.Stage {
	if f.stage == "" {
		return engine.StageIdle
	}
	return f.stage
}

func (f *fakeWorkflow) IsProcessing() bool { return f.processing }

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleSubmitFile(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
	}{
		{
			name:       "xlsx accepted",
			body:       `{"file_name":"expenses.xlsx"}`,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "xls accepted",
			body:       `{"file_name":"legacy.xls"}`,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "csv accepted",
			body:       `{"file_name":"export.csv"}`,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "uppercase extension accepted",
			body:       `{"file_name":"REPORT.XLSX"}`,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "pdf rejected",
			body:       `{"file_name":"report.pdf"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no extension rejected",
			body:       `{"file_name":"report"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "empty name rejected",
			body:       `{"file_name":"  "}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed body rejected",
			body:       `{"file_name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "busy engine yields conflict",
			body:       `{"file_name":"expenses.xlsx"}`,
			submitErr:  engine.ErrBusy,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := &fakeWorkflow{submitErr: tt.submitErr}
			s := &Server{workflow: wf}

			rec := postJSON(t, s.handleSubmitFile, "/files", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusAccepted && len(wf.submitted) != 1 {
				t.Fatalf("submitted = %v, want one entry", wf.submitted)
			}
			if tt.wantStatus != http.StatusAccepted && len(wf.submitted) != 0 {
				t.Fatalf("engine invoked for a rejected trigger: %v", wf.submitted)
			}
		})
	}
}

func TestHandleSubmitFileMethodNotAllowed(t *testing.T) {
	s := &Server{workflow: &fakeWorkflow{}}
	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	rec := httptest.NewRecorder()
	s.handleSubmitFile(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != "POST" {
		t.Fatalf("Allow header = %q, want POST", rec.Header().Get("Allow"))
	}
}

func TestHandleReset(t *testing.T) {
	wf := &fakeWorkflow{}
	s := &Server{workflow: wf}

	rec := postJSON(t, s.handleReset, "/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if wf.resets != 1 {
		t.Fatalf("resets = %d, want 1", wf.resets)
	}
}

func TestHandleExpenses(t *testing.T) {
	wf := &fakeWorkflow{
		expenses: []core.ExpenseRecord{
			{
				ID:          "r1",
				Date:        core.NewDate(2026, 9, 1),
				Category:    core.Food,
				Description: "Business lunch",
				Amount:      core.Money{Cents: 4250},
				Owner:       "John Smith",
			},
		},
	}
	s := &Server{workflow: wf}

	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	rec := httptest.NewRecorder()
	s.handleExpenses(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Expenses []expenseDTO `json:"expenses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Expenses) != 1 {
		t.Fatalf("expenses = %d, want 1", len(resp.Expenses))
	}
	e := resp.Expenses[0]
	if e.Date != "2026-09-01" || e.Amount != "$42.50" || e.AmountCents != 4250 {
		t.Fatalf("unexpected DTO: %+v", e)
	}
}

func TestHandleNotifications(t *testing.T) {
	wf := &fakeWorkflow{
		notifications: []core.Notification{
			{
				ID:            "n1",
				Recipient:     "john.smith@company.com",
				RecipientName: "John Smith",
				Total:         core.Money{Cents: 7000},
				Breakdown: []core.CategoryBreakdown{
					{Category: core.Food, Subtotal: core.Money{Cents: 7000}},
				},
				ComposedAt: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
				Status:     core.StatusSent,
			},
		},
	}
	s := &Server{workflow: wf}

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rec := httptest.NewRecorder()
	s.handleNotifications(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Notifications []notificationDTO `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(resp.Notifications))
	}
	n := resp.Notifications[0]
	if n.Total != "$70.00" || n.Status != "sent" || len(n.Breakdown) != 1 {
		t.Fatalf("unexpected DTO: %+v", n)
	}
}

func TestHandleLogsAndMetrics(t *testing.T) {
	wf := &fakeWorkflow{
		log: []core.LogEntry{
			{ID: "l2", Message: "Workflow completed successfully", Timestamp: time.Now(), Status: core.LogSuccess},
			{ID: "l1", Message: "Reading file: a.xlsx", Timestamp: time.Now(), Status: core.LogProcessing},
		},
		metrics: engine.Metrics{
			TotalSpent:        core.Money{Cents: 12000},
			AveragePerUser:    core.Money{Cents: 4000},
			BatchesProcessed:  2,
			NotificationsSent: 5,
		},
		processing: true,
		stage:      engine.StageComposingReports,
	}
	s := &Server{workflow: wf}

	rec := httptest.NewRecorder()
	s.handleLogs(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logs status = %d, want 200", rec.Code)
	}
	var logs struct {
		Logs []logEntryDTO `json:"logs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(logs.Logs) != 2 || logs.Logs[0].ID != "l2" {
		t.Fatalf("unexpected log feed: %+v", logs.Logs)
	}

	rec = httptest.NewRecorder()
	s.handleMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	var m metricsDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.TotalSpent != "$120.00" || m.AveragePerUser != "$40.00" || m.BatchesProcessed != 2 || m.NotificationsSent != 5 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if !m.Processing || m.Stage != string(engine.StageComposingReports) {
		t.Fatalf("unexpected run state: %+v", m)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := &Server{workflow: &fakeWorkflow{}, rateLimiter: newRateLimiter()}
	defer s.rateLimiter.stop()

	handler := s.withSecurityHeaders(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
	if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "default-src 'self'") {
		t.Error("missing Content-Security-Policy header")
	}
}

func TestRateLimiterBlocksPostFlood(t *testing.T) {
	s := &Server{workflow: &fakeWorkflow{}, rateLimiter: newRateLimiter()}
	defer s.rateLimiter.stop()

	handler := s.withSecurityHeaders(s.handleReset)

	var last int
	for i := 0; i < 70; i++ {
		req := httptest.NewRequest(http.MethodPost, "/reset", nil)
		req.RemoteAddr = "10.1.2.3:4567"
		rec := httptest.NewRecorder()
		handler(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("status after flood = %d, want 429", last)
	}
}
