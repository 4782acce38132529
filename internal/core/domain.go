package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Utilities      Category = "Utilities"
	Healthcare     Category = "Healthcare"
)

const (
	StatusSent    DeliveryStatus = "sent"
	StatusPending DeliveryStatus = "pending"
)

const (
	LogInfo       LogStatus = "info"
	LogProcessing LogStatus = "processing"
	LogSuccess    LogStatus = "success"
	// LogError is part of the status taxonomy but no pipeline stage emits
	// it today: the simulation has no failing stage.
	LogError LogStatus = "error"
)

type (
	Category string

	// DeliveryStatus is the delivery state of a notification.
	DeliveryStatus string

	// LogStatus classifies a workflow log entry.
	LogStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is an identity known to the catalog. Name is the join key for
	// aggregation; Email is the notification destination.
	User struct {
		Name  string
		Email string
	}

	// ExpenseRecord is one simulated transaction. Records are created only
	// by the generator and are immutable afterwards.
	ExpenseRecord struct {
		ID          string
		Date        Date
		Category    Category
		Description string
		Amount      Money
		Owner       string // User.Name
	}

	// Notification is one outbound per-user expense summary.
	Notification struct {
		ID            string
		Recipient     string // email address
		RecipientName string
		Total         Money
		Breakdown     []CategoryBreakdown
		ComposedAt    time.Time
		Status        DeliveryStatus
	}

	// LogEntry is one append-only workflow log line.
	LogEntry struct {
		ID        string
		Message   string
		Timestamp time.Time
		Status    LogStatus
	}
)

// Categories is the fixed enumerated category set, in display order.
var Categories = []Category{Food, Transportation, Shopping, Entertainment, Utilities, Healthcare}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyOwner      = errors.New("empty owner")
	ErrEmptyRecipient  = errors.New("empty recipient")
	ErrEmptyMessage    = errors.New("empty message")
)

// IsValid reports whether c belongs to the enumerated category set.
func (c Category) IsValid() bool {
	switch c {
	case Food, Transportation, Shopping, Entertainment, Utilities, Healthcare:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

func (s DeliveryStatus) IsValid() bool {
	return s == StatusSent || s == StatusPending
}

func (s LogStatus) IsValid() bool {
	switch s {
	case LogInfo, LogProcessing, LogSuccess, LogError:
		return true
	default:
		return false
	}
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("empty user name")
	}
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("empty user email")
	}
	return nil
}

func (e ExpenseRecord) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("empty record id")
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return errors.New("empty description")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Owner) == "" {
		return ErrEmptyOwner
	}
	return nil
}

func (n Notification) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("empty notification id")
	}
	if strings.TrimSpace(n.Recipient) == "" {
		return ErrEmptyRecipient
	}
	if strings.TrimSpace(n.RecipientName) == "" {
		return errors.New("empty recipient name")
	}
	if err := n.Total.Validate(); err != nil {
		return err
	}
	if !n.Status.IsValid() {
		return errors.New("invalid delivery status")
	}

	// Breakdown subtotals must sum exactly to the total.
	var sum int64
	for _, b := range n.Breakdown {
		if !b.Category.IsValid() {
			return ErrInvalidCategory
		}
		sum += b.Subtotal.Cents
	}
	if sum != n.Total.Cents {
		return errors.New("breakdown does not sum to total")
	}
	return nil
}

func (l LogEntry) Validate() error {
	if strings.TrimSpace(l.Message) == "" {
		return ErrEmptyMessage
	}
	if !l.Status.IsValid() {
		return errors.New("invalid log status")
	}
	if l.Timestamp.IsZero() {
		return errors.New("zero timestamp")
	}
	return nil
}
