package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"sharkfin/internal/core"
)

func (c *Client) ListRules(ctx context.Context) ([]core.Rule, error) {
	var page Page[core.Rule]
	if err := c.get(ctx, "/rules", nil, &page); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return page.Items, nil
}

func (c *Client) CreateRule(ctx context.Context, r core.Rule) (core.Rule, error) {
	var created core.Rule
	if err := c.post(ctx, "/rules", r, &created); err != nil {
		return core.Rule{}, fmt.Errorf("create rule: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateRule(ctx context.Context, r core.Rule) (core.Rule, error) {
	var updated core.Rule
	if err := c.put(ctx, "/rules/"+url.PathEscape(r.ID), r, &updated); err != nil {
		return core.Rule{}, fmt.Errorf("update rule %s: %w", r.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteRule(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/rules/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	return nil
}

// RulePreview is the backend's dry run of a rule draft: the transactions it
// would touch and the total match count past the sample.
type RulePreview struct {
	Matches []core.Transaction `json:"matches"`
	Total   int                `json:"total"`
}

// PreviewRule submits a rule draft for a server-side dry run. The rule is
// not persisted; pattern matching happens on the backend only.
func (c *Client) PreviewRule(ctx context.Context, r core.Rule, limit int) (RulePreview, error) {
	path := "/rules/preview"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var preview RulePreview
	if err := c.post(ctx, path, r, &preview); err != nil {
		return RulePreview{}, fmt.Errorf("preview rule: %w", err)
	}
	return preview, nil
}
