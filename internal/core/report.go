package core

import "github.com/shopspring/decimal"

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DashboardReport is the backend's dashboard aggregate for a date range.
// Every number here is computed server-side; this tier only renders it.
type DashboardReport struct {
	StartDate          Date             `json:"start_date"`
	EndDate            Date             `json:"end_date"`
	NetWorth           decimal.Decimal  `json:"net_worth"`
	TotalIncome        decimal.Decimal  `json:"total_income"`
	TotalSpending      decimal.Decimal  `json:"total_spending"`
	SpendingByCategory []CategoryAmount `json:"spending_by_category"`
}

// Net returns income minus spending for the report range.
func (r DashboardReport) Net() decimal.Decimal {
	return r.TotalIncome.Sub(r.TotalSpending)
}

// TopCategory returns the largest spending category, if any.
func (r DashboardReport) TopCategory() (CategoryAmount, bool) {
	var top CategoryAmount
	found := false
	for _, c := range r.SpendingByCategory {
		if !found || c.Amount.GreaterThan(top.Amount) {
			top = c
			found = true
		}
	}
	return top, found
}
