package ledger

import (
	"time"

	"owura/internal/core"
)

// demoBook builds the sample dataset shown on first run, before the
// user has recorded anything of their own.
func demoBook(now time.Time, newID func() string) Book {
	kwame := core.Debtor{
		ID:        newID(),
		Name:      "Kwame Asante",
		Contact:   "kwame@example.com",
		Amount:    core.Money{Cents: 500000},
		Paid:      core.Money{Cents: 200000},
		DueDate:   core.NewDate(2024, 2, 15),
		Notes:     "Payment for consulting services",
		CreatedAt: now,
	}
	ama := core.Debtor{
		ID:        newID(),
		Name:      "Ama Mensah",
		Contact:   "+233-20-123-4567",
		Amount:    core.Money{Cents: 750000},
		Paid:      core.Money{},
		DueDate:   core.NewDate(2024, 1, 30),
		Notes:     "Outstanding invoice for goods supplied",
		CreatedAt: now,
	}

	return Book{
		Debtors: []core.Debtor{kwame, ama},
		Profits: []core.ProfitEntry{
			{
				ID:          newID(),
				Date:        core.NewDate(2024, 1, 10),
				Description: "Website Development Project",
				Category:    core.CategoryService,
				Amount:      core.Money{Cents: 1500000},
				Method:      core.MethodMobileMoney,
				CreatedAt:   now,
			},
			{
				ID:          newID(),
				Date:        core.NewDate(2024, 1, 15),
				Description: "Product Sales - Accra Market",
				Category:    core.CategorySale,
				Amount:      core.Money{Cents: 850000},
				Method:      core.MethodCash,
				CreatedAt:   now,
			},
		},
		Payments: []core.Payment{
			{
				ID:        newID(),
				DebtorID:  kwame.ID,
				Amount:    core.Money{Cents: 200000},
				Date:      core.NewDate(2024, 1, 20),
				Method:    core.MethodMobileMoney,
				Notes:     "Partial payment via MTN MoMo",
				CreatedAt: now,
			},
		},
	}
}
