package api

import (
	"context"
	"fmt"
	"net/url"

	"sharkfin/internal/core"
)

// Dashboard fetches the dashboard aggregate for an inclusive date range.
func (c *Client) Dashboard(ctx context.Context, start, end core.Date) (core.DashboardReport, error) {
	query := url.Values{
		"start_date": {start.String()},
		"end_date":   {end.String()},
	}
	var report core.DashboardReport
	if err := c.get(ctx, "/reports/dashboard", query, &report); err != nil {
		return core.DashboardReport{}, fmt.Errorf("dashboard report: %w", err)
	}
	return report, nil
}
