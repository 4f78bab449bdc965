package http

import (
	"fmt"
	"net/http"
	"strings"

	"owura/internal/core"
	applog "owura/internal/log"
)

type debtorRow struct {
	ID      string
	Name    string
	Contact string
	Amount  string
	Paid    string
	Balance string
	DueDate string
	Status  string
	CanPay  bool

	// Raw values used to prefill the edit form
	AmountRaw  string
	DueDateRaw string
	Notes      string
}

// handleDebtorsTable renders the debtors table partial, honoring the
// q (name/contact search) and status query parameters.
func (s *Server) handleDebtorsTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	now := s.now()
	search := r.URL.Query().Get("q")
	status := core.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	debtors := s.ledger.FilterDebtors(search, status, now)

	data := struct {
		Rows     []debtorRow
		Filtered bool
	}{Filtered: search != "" || status != ""}

	for _, d := range debtors {
		balance := core.Balance(d)
		data.Rows = append(data.Rows, debtorRow{
			ID:         d.ID,
			Name:       d.Name,
			Contact:    d.Contact,
			Amount:     formatCedis(d.Amount.Cents),
			Paid:       formatCedis(d.Paid.Cents),
			Balance:    formatCedis(balance.Cents),
			DueDate:    formatDate(d.DueDate.Time),
			Status:     string(core.DebtorStatus(d, now)),
			CanPay:     balance.Cents > 0,
			AmountRaw:  trimAmount(d.Amount),
			DueDateRaw: d.DueDate.Format(formDateLayout),
			Notes:      d.Notes,
		})
	}

	s.render(w, r, "debtors_table.html", data)
}

func (s *Server) handleCreateDebtor(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	in, err := parseDebtorForm(r)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	d, err := s.ledger.AddDebtor(r.Context(), in)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Debtor created",
		applog.FieldDebtorID, d.ID, applog.FieldAmountCents, d.Amount.Cents)
	writeSuccessFragment(w, "Debtor added: "+d.Name)
}

func (s *Server) handleUpdateDebtor(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	in, err := parseDebtorForm(r)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	d, err := s.ledger.EditDebtor(r.Context(), id, in)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	writeSuccessFragment(w, "Debtor updated: "+d.Name)
}

func (s *Server) handleDeleteDebtor(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	if err := s.ledger.DeleteDebtor(r.Context(), id); err != nil {
		writeActionError(w, r, err)
		return
	}
	writeSuccessFragment(w, "Debtor deleted")
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	amount, err := parseFormAmount(r.Form.Get("amount"))
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	date, err := parseFormDate(r.Form.Get("date"))
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	method, err := parseFormMethod(r.Form.Get("method"))
	if err != nil {
		writeActionError(w, r, err)
		return
	}

	p, err := s.ledger.RecordPayment(r.Context(), id, amount, date, method, sanitizeInput(r.Form.Get("notes")))
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Payment recorded",
		applog.FieldPaymentID, p.ID, applog.FieldDebtorID, id, applog.FieldAmountCents, p.Amount.Cents)
	writeSuccessFragment(w, "Payment recorded: "+formatCedis(p.Amount.Cents))
}

// trimAmount renders cents as a bare decimal for form prefill
// (1234 -> "12.34", 500000 -> "5000").
func trimAmount(m core.Money) string {
	s := strings.TrimRight(strings.TrimRight(formatPlain(m.Cents), "0"), ".")
	if s == "" {
		return "0"
	}
	return s
}

func formatPlain(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	out := fmt.Sprintf("%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + out
	}
	return out
}
