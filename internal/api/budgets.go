package api

import (
	"context"
	"fmt"
	"net/url"

	"sharkfin/internal/core"
)

// ListBudgets returns every budget with backend-computed progress.
func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var page Page[core.Budget]
	if err := c.get(ctx, "/budgets", nil, &page); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return page.Items, nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var created core.Budget
	if err := c.post(ctx, "/budgets", b, &created); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var updated core.Budget
	if err := c.put(ctx, "/budgets/"+url.PathEscape(b.ID), b, &updated); err != nil {
		return core.Budget{}, fmt.Errorf("update budget %s: %w", b.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/budgets/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete budget %s: %w", id, err)
	}
	return nil
}
