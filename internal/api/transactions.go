package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"sharkfin/internal/core"
)

// TransactionFilter narrows and paginates a transaction listing. Zero
// values mean "no constraint"; Limit falls back to the backend default.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	StartDate  core.Date
	EndDate    core.Date
	Search     string
	Offset     int
	Limit      int
}

func (f TransactionFilter) query() url.Values {
	q := url.Values{}
	if f.AccountID != "" {
		q.Set("account_id", f.AccountID)
	}
	if f.CategoryID != "" {
		q.Set("category_id", f.CategoryID)
	}
	if !f.StartDate.IsZero() {
		q.Set("start_date", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		q.Set("end_date", f.EndDate.String())
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ListTransactions fetches one page of transactions matching the filter.
// Paging across the whole set is the windowing layer's call to make.
func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter) (Page[core.Transaction], error) {
	var page Page[core.Transaction]
	if err := c.get(ctx, "/transactions", filter.query(), &page); err != nil {
		return Page[core.Transaction]{}, fmt.Errorf("list transactions: %w", err)
	}
	return page, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var tx core.Transaction
	if err := c.get(ctx, "/transactions/"+url.PathEscape(id), nil, &tx); err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

func (c *Client) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var created core.Transaction
	if err := c.post(ctx, "/transactions", tx, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var updated core.Transaction
	if err := c.put(ctx, "/transactions/"+url.PathEscape(tx.ID), tx, &updated); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/transactions/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}
