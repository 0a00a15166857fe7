package views

import (
	"context"
	"fmt"
	"sync"

	"sharkfin/internal/api"
	"sharkfin/internal/backend"
	"sharkfin/internal/core"
	"sharkfin/internal/listwindow"
)

// TransactionList holds the scroll state of one filtered transaction
// listing: the rows loaded so far plus their measured heights. Instances
// live in a per-session cache keyed by the filter signature, so repeated
// window requests extend the same state instead of refetching from zero.
type TransactionList struct {
	mu       sync.Mutex
	filter   api.TransactionFilter
	win      *listwindow.Windower
	rows     []core.Transaction
	pageSize int
	primed   bool
}

// TransactionRow is one rendered slot of the window. Placeholder rows have
// no transaction yet; the client re-requests once the load completes.
type TransactionRow struct {
	Index       int
	Placeholder bool
	Transaction core.Transaction
}

// TransactionWindowView is the rendered slice of the virtual list.
type TransactionWindowView struct {
	Rows        []TransactionRow
	First       int
	Last        int
	TopOffset   int
	TotalHeight int
	Total       int
	Loading     bool
}

// NewTransactionList creates an empty list for a filter. Rows load lazily
// on the first Window call.
func NewTransactionList(cfg listwindow.Config, filter api.TransactionFilter, pageSize int) *TransactionList {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &TransactionList{
		filter:   filter,
		win:      listwindow.New(cfg, 0),
		pageSize: pageSize,
	}
}

// Window resolves the visible slice for a scroll position, loading the next
// page first when the window reaches the unloaded tail. Concurrent calls
// share one in-flight load.
func (l *TransactionList) Window(ctx context.Context, b backend.TransactionService, scrollTop, viewportHeight int) (TransactionWindowView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.primed {
		if err := l.loadNextLocked(ctx, b); err != nil {
			return TransactionWindowView{}, err
		}
		l.primed = true
	}

	win := l.win.Window(scrollTop, viewportHeight)
	if win.NeedLoad && l.win.BeginLoad() {
		err := l.loadNextLocked(ctx, b)
		l.win.FinishLoad()
		if err != nil {
			return TransactionWindowView{}, err
		}
		win = l.win.Window(scrollTop, viewportHeight)
	}

	view := TransactionWindowView{
		First:       win.First,
		Last:        win.Last,
		TopOffset:   win.TopOffset,
		TotalHeight: win.TotalHeight,
		Total:       l.win.Total(),
		Loading:     win.NeedLoad,
	}
	for i := win.First; i <= win.Last && i < l.win.Total(); i++ {
		if i < len(l.rows) {
			view.Rows = append(view.Rows, TransactionRow{Index: i, Transaction: l.rows[i]})
		} else {
			view.Rows = append(view.Rows, TransactionRow{Index: i, Placeholder: true})
		}
	}
	return view, nil
}

// loadNextLocked fetches the page after the loaded prefix and appends it.
func (l *TransactionList) loadNextLocked(ctx context.Context, b backend.TransactionService) error {
	filter := l.filter
	filter.Offset = len(l.rows)
	filter.Limit = l.pageSize

	page, err := b.ListTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("load transactions at offset %d: %w", filter.Offset, err)
	}

	l.win.SetTotal(page.Total)
	l.rows = append(l.rows, page.Items...)

	// A payee (or notes) renders as a second line under the description,
	// making the row taller than the base height.
	subLines := make([]bool, len(page.Items))
	for i, tx := range page.Items {
		subLines[i] = tx.PayeeName != "" || tx.Notes != ""
	}
	l.win.Append(subLines)
	return nil
}

// TransactionsView backs the full transactions page: the filter form needs
// accounts and categories, the list itself arrives via the window partial.
type TransactionsView struct {
	Accounts   []core.Account
	Categories []core.Category
	Filter     api.TransactionFilter
}

// BuildTransactions fetches the filter form's reference data.
func BuildTransactions(ctx context.Context, b backend.Backend, filter api.TransactionFilter) (TransactionsView, error) {
	view := TransactionsView{Filter: filter}

	accounts, err := b.ListAccounts(ctx, false)
	if err != nil {
		return TransactionsView{}, fmt.Errorf("list accounts: %w", err)
	}
	categories, err := b.ListCategories(ctx)
	if err != nil {
		return TransactionsView{}, fmt.Errorf("list categories: %w", err)
	}

	view.Accounts = accounts
	view.Categories = categories
	return view, nil
}
