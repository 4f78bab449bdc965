package http

import (
	"net/http"

	"owura/internal/core"
)

type statusBar struct {
	Label string
	Count int
	Width int
}

type activityRow struct {
	Kind        string
	Description string
	Date        string
	Amount      string
}

type dashboardData struct {
	TotalProfits     string
	TotalOwed        string
	ActiveDebtors    int
	MonthlyCollected string
	Activities       []activityRow
	Chart            []statusBar
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Today string
	}{
		Today: s.now().Format(formDateLayout),
	}
	s.render(w, r, "index.html", data)
}

// handleDashboard renders the dashboard partial: stat cards, the
// status chart and the recent-activity feed, all recomputed from the
// current book on every request.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	now := s.now()
	book := s.ledger.Book()

	data := dashboardData{
		TotalProfits:     formatCedis(core.TotalProfit(book.Profits).Cents),
		TotalOwed:        formatCedis(core.TotalOwed(book.Debtors).Cents),
		ActiveDebtors:    core.ActiveDebtorCount(book.Debtors),
		MonthlyCollected: formatCedis(core.MonthlyCollected(book.Payments, now.Month(), now.Year()).Cents),
	}

	for _, a := range core.RecentActivity(book.Debtors, book.Profits, book.Payments, 5) {
		data.Activities = append(data.Activities, activityRow{
			Kind:        string(a.Kind),
			Description: a.Description,
			Date:        formatDate(a.Date),
			Amount:      formatCedis(a.Amount.Cents),
		})
	}

	counts := core.StatusHistogram(book.Debtors, now)
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	for _, st := range []core.Status{core.StatusPaid, core.StatusPartial, core.StatusPending, core.StatusOverdue} {
		data.Chart = append(data.Chart, statusBar{
			Label: string(st),
			Count: counts[st],
			Width: core.ChartWidth(counts[st], maxCount),
		})
	}

	s.render(w, r, "dashboard.html", data)
}
