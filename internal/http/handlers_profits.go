package http

import (
	"net/http"
	"strings"

	applog "owura/internal/log"
)

type profitRow struct {
	ID          string
	Date        string
	Description string
	Category    string
	Amount      string
	Method      string

	// Raw values used to prefill the edit form
	DateRaw   string
	AmountRaw string
	MethodRaw string
}

// handleProfitsTable renders the profits table partial, honoring the
// q (description search) and category query parameters.
func (s *Server) handleProfitsTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	search := r.URL.Query().Get("q")
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	profits := s.ledger.FilterProfits(search, category)

	data := struct {
		Rows     []profitRow
		Filtered bool
	}{Filtered: search != "" || category != ""}

	for _, p := range profits {
		data.Rows = append(data.Rows, profitRow{
			ID:          p.ID,
			Date:        formatDate(p.Date.Time),
			Description: p.Description,
			Category:    p.Category,
			Amount:      formatCedis(p.Amount.Cents),
			Method:      methodLabel(p.Method),
			DateRaw:     p.Date.Format(formDateLayout),
			AmountRaw:   trimAmount(p.Amount),
			MethodRaw:   string(p.Method),
		})
	}

	s.render(w, r, "profits_table.html", data)
}

func (s *Server) handleCreateProfit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	in, err := parseProfitForm(r)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	p, err := s.ledger.AddProfit(r.Context(), in)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Profit created",
		applog.FieldProfitID, p.ID, applog.FieldAmountCents, p.Amount.Cents)
	writeSuccessFragment(w, "Profit recorded: "+p.Description)
}

func (s *Server) handleUpdateProfit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	in, err := parseProfitForm(r)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	p, err := s.ledger.EditProfit(r.Context(), id, in)
	if err != nil {
		writeActionError(w, r, err)
		return
	}
	writeSuccessFragment(w, "Profit updated: "+p.Description)
}

func (s *Server) handleDeleteProfit(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !parseForm(w, r) {
		return
	}
	id := strings.TrimSpace(r.Form.Get("id"))
	if err := s.ledger.DeleteProfit(r.Context(), id); err != nil {
		writeActionError(w, r, err)
		return
	}
	writeSuccessFragment(w, "Profit entry deleted")
}
