package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"owura/internal/core"
	"owura/internal/ledger"
)

const formDateLayout = "2006-01-02"

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func parseFormDate(v string) (core.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return core.Date{}, core.ErrInvalidDate
	}
	t, err := time.Parse(formDateLayout, v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, v)
	}
	return core.Date{Time: t}, nil
}

func parseFormAmount(v string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(v)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func parseFormMethod(v string) (core.Method, error) {
	m := core.Method(strings.TrimSpace(v))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// parseDebtorForm reads the add/edit debtor form into a DebtorInput.
func parseDebtorForm(r *http.Request) (ledger.DebtorInput, error) {
	amount, err := parseFormAmount(r.Form.Get("amount"))
	if err != nil {
		return ledger.DebtorInput{}, fmt.Errorf("amount: %w", err)
	}
	due, err := parseFormDate(r.Form.Get("dueDate"))
	if err != nil {
		return ledger.DebtorInput{}, fmt.Errorf("due date: %w", err)
	}
	return ledger.DebtorInput{
		Name:    sanitizeInput(r.Form.Get("name")),
		Contact: sanitizeInput(r.Form.Get("contact")),
		Amount:  amount,
		DueDate: due,
		Notes:   sanitizeInput(r.Form.Get("notes")),
	}, nil
}

// parseProfitForm reads the add/edit profit form into a ProfitInput.
func parseProfitForm(r *http.Request) (ledger.ProfitInput, error) {
	amount, err := parseFormAmount(r.Form.Get("amount"))
	if err != nil {
		return ledger.ProfitInput{}, fmt.Errorf("amount: %w", err)
	}
	date, err := parseFormDate(r.Form.Get("date"))
	if err != nil {
		return ledger.ProfitInput{}, fmt.Errorf("date: %w", err)
	}
	method, err := parseFormMethod(r.Form.Get("paymentMethod"))
	if err != nil {
		return ledger.ProfitInput{}, err
	}
	return ledger.ProfitInput{
		Date:        date,
		Description: sanitizeInput(r.Form.Get("description")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Amount:      amount,
		Method:      method,
	}, nil
}
