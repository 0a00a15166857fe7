package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"sharkfin/internal/core"
)

func (c *Client) ListPayees(ctx context.Context) ([]core.Payee, error) {
	var page Page[core.Payee]
	if err := c.get(ctx, "/payees", nil, &page); err != nil {
		return nil, fmt.Errorf("list payees: %w", err)
	}
	return page.Items, nil
}

// SuggestPayees asks the backend suggestion endpoint for payees matching the
// typed prefix. Scoring and ranking are entirely server-side.
func (c *Client) SuggestPayees(ctx context.Context, q string, limit int) ([]core.PayeeSuggestion, error) {
	query := url.Values{"q": {q}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Suggestions []core.PayeeSuggestion `json:"suggestions"`
	}
	if err := c.get(ctx, "/payees/suggestions", query, &out); err != nil {
		return nil, fmt.Errorf("suggest payees: %w", err)
	}
	return out.Suggestions, nil
}
