package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkfin/internal/api"
	"sharkfin/internal/backend"
	"sharkfin/internal/core"
	"sharkfin/internal/daterange"
	"sharkfin/internal/listwindow"
)

type fakeBackend struct {
	backend.Backend

	accounts     []core.Account
	budgets      []core.Budget
	categories   []core.Category
	report       core.DashboardReport
	transactions []core.Transaction

	reportErr error
	listCalls int
}

func (f *fakeBackend) ListAccounts(ctx context.Context, includeArchived bool) ([]core.Account, error) {
	return f.accounts, nil
}

func (f *fakeBackend) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return f.budgets, nil
}

func (f *fakeBackend) ListCategories(ctx context.Context) ([]core.Category, error) {
	return f.categories, nil
}

func (f *fakeBackend) Dashboard(ctx context.Context, start, end core.Date) (core.DashboardReport, error) {
	if f.reportErr != nil {
		return core.DashboardReport{}, f.reportErr
	}
	return f.report, nil
}

func (f *fakeBackend) ListTransactions(ctx context.Context, filter api.TransactionFilter) (api.Page[core.Transaction], error) {
	f.listCalls++
	end := filter.Offset + filter.Limit
	if end > len(f.transactions) {
		end = len(f.transactions)
	}
	start := filter.Offset
	if start > end {
		start = end
	}
	return api.Page[core.Transaction]{
		Items:  f.transactions[start:end],
		Total:  len(f.transactions),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildDashboard(t *testing.T) {
	b := &fakeBackend{
		accounts: []core.Account{{ID: "a1", Name: "Checking"}},
		budgets: []core.Budget{
			{ID: "b1", CategoryName: "Groceries", Limit: dec("400"), Spent: dec("450.50")},
			{ID: "b2", CategoryName: "Transport", Limit: dec("100"), Spent: dec("20")},
		},
		report: core.DashboardReport{TotalIncome: dec("3000"), TotalSpending: dec("1800.10")},
	}

	rng, err := daterange.Resolve(daterange.MonthToDate, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	view, err := BuildDashboard(context.Background(), b, daterange.MonthToDate, rng)
	require.NoError(t, err)

	assert.Equal(t, "1199.9", view.Report.Net().String())
	assert.Len(t, view.Accounts, 1)

	exceeded := view.ExceededBudgets()
	require.Len(t, exceeded, 1)
	assert.Equal(t, "b1", exceeded[0].ID)
}

func TestBuildDashboard_PropagatesError(t *testing.T) {
	b := &fakeBackend{reportErr: errors.New("backend down")}

	rng, err := daterange.Resolve(daterange.Last30Days, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = BuildDashboard(context.Background(), b, daterange.Last30Days, rng)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func makeTransactions(n int) []core.Transaction {
	txs := make([]core.Transaction, n)
	for i := range txs {
		txs[i] = core.Transaction{
			ID:          string(rune('a' + i%26)),
			AccountID:   "a1",
			Amount:      dec("-10"),
			Description: "tx",
			Date:        core.NewDate(2026, 8, 1),
		}
	}
	return txs
}

func TestTransactionList_Window(t *testing.T) {
	b := &fakeBackend{transactions: makeTransactions(250)}
	cfg := listwindow.Config{BaseRowHeight: 50, SubLineHeight: 20, Overscan: 2, LoadThreshold: 10}
	list := NewTransactionList(cfg, api.TransactionFilter{}, 100)

	// First window primes the list with one page.
	view, err := list.Window(context.Background(), b, 0, 300)
	require.NoError(t, err)
	assert.Equal(t, 1, b.listCalls)
	assert.Equal(t, 0, view.First)
	assert.Equal(t, 250, view.Total)
	assert.Equal(t, 250*50, view.TotalHeight)
	require.NotEmpty(t, view.Rows)
	assert.False(t, view.Rows[0].Placeholder)

	// Scrolling near the end of the loaded prefix triggers the next page.
	view, err = list.Window(context.Background(), b, 95*50, 300)
	require.NoError(t, err)
	assert.Equal(t, 2, b.listCalls)
	assert.GreaterOrEqual(t, view.Last, 95)
	for _, row := range view.Rows {
		assert.False(t, row.Placeholder, "row %d should be loaded", row.Index)
	}
}

func TestTransactionList_PlaceholdersBeyondLoaded(t *testing.T) {
	b := &fakeBackend{transactions: makeTransactions(250)}
	cfg := listwindow.Config{BaseRowHeight: 50, SubLineHeight: 20, Overscan: 2, LoadThreshold: 5}
	list := NewTransactionList(cfg, api.TransactionFilter{}, 100)

	// Jump deep into the unloaded tail. One extra page loads (rows 100-199)
	// but the window sits past it, so the slots render as placeholders.
	view, err := list.Window(context.Background(), b, 230*50, 300)
	require.NoError(t, err)
	require.NotEmpty(t, view.Rows)
	for _, row := range view.Rows {
		assert.True(t, row.Placeholder, "row %d should be a placeholder", row.Index)
	}
}

func TestTransactionList_PayeeSubLineHeights(t *testing.T) {
	b := &fakeBackend{transactions: []core.Transaction{
		{ID: "t1", AccountID: "a1", Amount: dec("-3.20"), Description: "Espresso",
			PayeeName: "Caffe Nero", Date: core.NewDate(2026, 8, 1)},
		{ID: "t2", AccountID: "a1", Amount: dec("-45.00"), Description: "Groceries",
			Notes: "weekly run", Date: core.NewDate(2026, 8, 2)},
		{ID: "t3", AccountID: "a1", Amount: dec("-9.99"), Description: "Streaming",
			Date: core.NewDate(2026, 8, 3)},
	}}
	cfg := listwindow.Config{BaseRowHeight: 40, SubLineHeight: 20, Overscan: 2, LoadThreshold: 5}
	list := NewTransactionList(cfg, api.TransactionFilter{}, 100)

	view, err := list.Window(context.Background(), b, 0, 300)
	require.NoError(t, err)

	// Rows with a payee or notes carry a sub-line; the bare row does not.
	assert.Equal(t, 60+60+40, view.TotalHeight)
}

func TestBuildTransactions(t *testing.T) {
	b := &fakeBackend{
		accounts:   []core.Account{{ID: "a1", Name: "Checking"}},
		categories: []core.Category{{ID: "c1", Name: "Groceries", Type: core.CategoryExpense}},
	}

	view, err := BuildTransactions(context.Background(), b, api.TransactionFilter{AccountID: "a1"})
	require.NoError(t, err)
	assert.Len(t, view.Accounts, 1)
	assert.Len(t, view.Categories, 1)
	assert.Equal(t, "a1", view.Filter.AccountID)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "12.50", FormatAmount(dec("12.5")))
	assert.Equal(t, "amount-negative", AmountClass(dec("-1")))
	assert.Equal(t, "amount-positive", AmountClass(dec("1")))
	assert.Equal(t, "amount-zero", AmountClass(dec("0")))
	assert.Equal(t, "25%", FormatPercent(0.25))
	assert.Equal(t, "2026-08-26", FormatDate(core.NewDate(2026, 8, 26)))
	assert.Equal(t, "-", FormatDate(core.Date{}))
}
