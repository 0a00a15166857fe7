package api

import (
	"context"
	"fmt"
	"net/url"

	"sharkfin/internal/core"
)

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var page Page[core.Category]
	if err := c.get(ctx, "/categories", nil, &page); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return page.Items, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	var created core.Category
	if err := c.post(ctx, "/categories", cat, &created); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	var updated core.Category
	if err := c.put(ctx, "/categories/"+url.PathEscape(cat.ID), cat, &updated); err != nil {
		return core.Category{}, fmt.Errorf("update category %s: %w", cat.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/categories/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}
