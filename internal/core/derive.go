package core

import (
	"sort"
	"time"
)

// ActivityKind tags entries in the recent-activity feed.
type ActivityKind string

const (
	ActivityPayment ActivityKind = "payment"
	ActivityDebt    ActivityKind = "debt"
	ActivityProfit  ActivityKind = "profit"
)

// Activity is one row of the dashboard feed.
type Activity struct {
	Kind        ActivityKind
	Description string
	Amount      Money
	Date        time.Time
}

// Balance returns amount owed minus amount paid. Overpayment yields a
// negative balance; nothing clamps it.
func Balance(d Debtor) Money {
	return d.Amount.Sub(d.Paid)
}

// DebtorStatus classifies a debtor at the given moment. First match
// wins: a settled balance is always "paid", even past the due date.
func DebtorStatus(d Debtor, today time.Time) Status {
	if Balance(d).Cents <= 0 {
		return StatusPaid
	}
	if !d.DueDate.IsZero() && d.DueDate.Before(today) {
		return StatusOverdue
	}
	if d.Paid.Cents > 0 {
		return StatusPartial
	}
	return StatusPending
}

// TotalOwed sums balances over all debtors, negative balances included.
func TotalOwed(debtors []Debtor) Money {
	var total Money
	for _, d := range debtors {
		total = total.Add(Balance(d))
	}
	return total
}

// ActiveDebtorCount counts debtors with a strictly positive balance.
func ActiveDebtorCount(debtors []Debtor) int {
	n := 0
	for _, d := range debtors {
		if Balance(d).Cents > 0 {
			n++
		}
	}
	return n
}

// TotalProfit sums all profit amounts, unfiltered.
func TotalProfit(profits []ProfitEntry) Money {
	var total Money
	for _, p := range profits {
		total = total.Add(p.Amount)
	}
	return total
}

// MonthlyCollected sums payments whose own date falls in the given
// calendar month. The creation timestamp is ignored.
func MonthlyCollected(payments []Payment, month time.Month, year int) Money {
	var total Money
	for _, p := range payments {
		if p.Date.IsZero() {
			continue
		}
		if p.Date.Month() == month && p.Date.Year() == year {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// RecentActivity merges the most recent 5 payments, 3 debtors and 3
// profits (by insertion order) into one feed sorted by effective date
// descending, truncated to limit. Date ties keep the merge order:
// payments before debtors before profits.
func RecentActivity(debtors []Debtor, profits []ProfitEntry, payments []Payment, limit int) []Activity {
	byID := make(map[string]string, len(debtors))
	for _, d := range debtors {
		byID[d.ID] = d.Name
	}

	feed := make([]Activity, 0, 11)
	for _, p := range lastN(payments, 5) {
		name, ok := byID[p.DebtorID]
		if !ok {
			name = "Unknown"
		}
		feed = append(feed, Activity{
			Kind:        ActivityPayment,
			Description: "Payment received from " + name,
			Amount:      p.Amount,
			Date:        p.Date.Time,
		})
	}
	for _, d := range lastN(debtors, 3) {
		feed = append(feed, Activity{
			Kind:        ActivityDebt,
			Description: "New debtor: " + d.Name,
			Amount:      d.Amount,
			Date:        d.CreatedAt,
		})
	}
	for _, p := range lastN(profits, 3) {
		feed = append(feed, Activity{
			Kind:        ActivityProfit,
			Description: p.Description,
			Amount:      p.Amount,
			Date:        p.Date.Time,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

// StatusHistogram tallies DebtorStatus over all debtors. All four
// statuses are present in the result, zero counts included, so the
// chart always renders every bar.
func StatusHistogram(debtors []Debtor, today time.Time) map[Status]int {
	counts := map[Status]int{
		StatusPaid:    0,
		StatusPartial: 0,
		StatusPending: 0,
		StatusOverdue: 0,
	}
	for _, d := range debtors {
		counts[DebtorStatus(d, today)]++
	}
	return counts
}

// ChartWidth scales a histogram count to a 0-100 bar width relative to
// the largest count. The divisor is floored at 1 so an empty ledger
// renders flat bars instead of dividing by zero.
func ChartWidth(count, maxCount int) int {
	if maxCount < 1 {
		maxCount = 1
	}
	if count <= 0 {
		return 0
	}
	width := (count*100 + maxCount/2) / maxCount
	if width < 2 {
		width = 2 // keep tiny bars visible
	}
	if width > 100 {
		width = 100
	}
	return width
}

// lastN returns the trailing n items of s, newest first.
func lastN[T any](s []T, n int) []T {
	if len(s) < n {
		n = len(s)
	}
	out := make([]T, 0, n)
	for i := len(s) - 1; i >= len(s)-n; i-- {
		out = append(out, s[i])
	}
	return out
}
