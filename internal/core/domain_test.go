package core

import (
	"testing"
	"time"
)

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories {
		if !c.IsValid() {
			t.Fatalf("expected %q to be valid", c)
		}
	}
	if Category("Groceries").IsValid() {
		t.Fatalf("expected unknown category to be invalid")
	}
	if Category("").IsValid() {
		t.Fatalf("expected empty category to be invalid")
	}
}

func TestLogStatusTaxonomy(t *testing.T) {
	// LogError stays representable even though nothing emits it.
	for _, s := range []LogStatus{LogInfo, LogProcessing, LogSuccess, LogError} {
		if !s.IsValid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if LogStatus("fatal").IsValid() {
		t.Fatalf("expected unknown status to be invalid")
	}
}

func TestExpenseRecordValidate(t *testing.T) {
	good := ExpenseRecord{
		ID:          "r1",
		Date:        NewDate(2026, 9, 1),
		Category:    Food,
		Description: "Subway Lunch",
		Amount:      Money{Cents: 1234},
		Owner:       "John Smith",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseRecord{
		{ID: "", Date: good.Date, Category: Food, Description: "a", Amount: Money{Cents: 1}, Owner: "u"},
		{ID: "r", Date: Date{Time: time.Time{}}, Category: Food, Description: "a", Amount: Money{Cents: 1}, Owner: "u"},
		{ID: "r", Date: good.Date, Category: "Nope", Description: "a", Amount: Money{Cents: 1}, Owner: "u"},
		{ID: "r", Date: good.Date, Category: Food, Description: "", Amount: Money{Cents: 1}, Owner: "u"},
		{ID: "r", Date: good.Date, Category: Food, Description: "a", Amount: Money{Cents: 0}, Owner: "u"},
		{ID: "r", Date: good.Date, Category: Food, Description: "a", Amount: Money{Cents: 1}, Owner: ""},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNotificationValidateBreakdownSum(t *testing.T) {
	n := Notification{
		ID:            "n1",
		Recipient:     "john.smith@company.com",
		RecipientName: "John Smith",
		Total:         Money{Cents: 5000},
		Breakdown: []CategoryBreakdown{
			{Category: Food, Subtotal: Money{Cents: 2000}},
			{Category: Transportation, Subtotal: Money{Cents: 3000}},
		},
		ComposedAt: time.Now(),
		Status:     StatusSent,
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	n.Breakdown[0].Subtotal.Cents = 1999
	if err := n.Validate(); err == nil {
		t.Fatalf("expected error when breakdown does not sum to total")
	}
}

func TestLogEntryValidate(t *testing.T) {
	good := LogEntry{ID: "l1", Message: "ok", Timestamp: time.Now(), Status: LogInfo}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []LogEntry{
		{ID: "l", Message: "", Timestamp: time.Now(), Status: LogInfo},
		{ID: "l", Message: "m", Timestamp: time.Time{}, Status: LogInfo},
		{ID: "l", Message: "m", Timestamp: time.Now(), Status: "loud"},
	}
	for i, l := range bads {
		if err := l.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
