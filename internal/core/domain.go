package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
	StatusPartial Status = "partial"
	StatusPending Status = "pending"
)

const (
	MethodCash        Method = "cash"
	MethodMobileMoney Method = "mobile_money"
	MethodBank        Method = "bank"
	MethodCard        Method = "card"
	MethodCheck       Method = "check"
	MethodOther       Method = "other"
)

// Well-known profit categories. Callers may record additional free-form tags.
const (
	CategorySale    = "sale"
	CategoryService = "service"
	CategoryOther   = "other"
)

type (
	// Status is the derived payment state of a debtor. It is never stored;
	// it is recomputed from amount, paid and due date on every read.
	Status string

	// Method identifies how money changed hands.
	Method string

	// Date is a calendar date with day granularity.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Debtor is a counterparty owing money. Paid may exceed Amount;
	// the balance is deliberately left unclamped.
	Debtor struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Contact   string    `json:"contact"`
		Amount    Money     `json:"amount"`
		Paid      Money     `json:"paid"`
		DueDate   Date      `json:"dueDate"`
		Notes     string    `json:"notes"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// ProfitEntry is an independent revenue record. It never references
	// a debtor.
	ProfitEntry struct {
		ID          string    `json:"id"`
		Date        Date      `json:"date"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		Method      Method    `json:"paymentMethod"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// Payment is a discrete amount applied against one debtor's balance.
	// Payments are owned by their debtor and removed when it is deleted.
	Payment struct {
		ID        string    `json:"id"`
		DebtorID  string    `json:"debtorId"`
		Amount    Money     `json:"amount"`
		Date      Date      `json:"date"`
		Method    Method    `json:"method"`
		Notes     string    `json:"notes"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMethod    = errors.New("invalid payment method")

	// ErrNotFound reports a mutation referencing a record id that does
	// not exist. No state is touched on that path.
	ErrNotFound = errors.New("record not found")

	// ErrParse reports a malformed snapshot document on import.
	ErrParse = errors.New("malformed document")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Method) Validate() error {
	switch m {
	case MethodCash, MethodMobileMoney, MethodBank, MethodCard, MethodCheck, MethodOther:
		return nil
	}
	return ErrInvalidMethod
}

func (d Debtor) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if len(d.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if d.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if d.Paid.Cents < 0 {
		return errors.New("negative paid amount")
	}
	return d.DueDate.Validate()
}

func (p ProfitEntry) Validate() error {
	if len(strings.TrimSpace(p.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(p.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(p.Category) == "" {
		return errors.New("empty category")
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	return p.Method.Validate()
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.DebtorID) == "" {
		return errors.New("empty debtor id")
	}
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	return p.Method.Validate()
}
