package api

import (
	"context"
	"fmt"
	"net/url"

	"sharkfin/internal/core"
)

// ListAccounts returns every account, archived ones included when
// includeArchived is set.
func (c *Client) ListAccounts(ctx context.Context, includeArchived bool) ([]core.Account, error) {
	query := url.Values{}
	if includeArchived {
		query.Set("include_archived", "true")
	}
	var page Page[core.Account]
	if err := c.get(ctx, "/accounts", query, &page); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return page.Items, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var acc core.Account
	if err := c.get(ctx, "/accounts/"+url.PathEscape(id), nil, &acc); err != nil {
		return core.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	return acc, nil
}

func (c *Client) CreateAccount(ctx context.Context, acc core.Account) (core.Account, error) {
	var created core.Account
	if err := c.post(ctx, "/accounts", acc, &created); err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateAccount(ctx context.Context, acc core.Account) (core.Account, error) {
	var updated core.Account
	if err := c.put(ctx, "/accounts/"+url.PathEscape(acc.ID), acc, &updated); err != nil {
		return core.Account{}, fmt.Errorf("update account %s: %w", acc.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/accounts/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}
