// Package views assembles page view models from the backend ports. It owns
// no state; handlers call it per request with a token-scoped backend.
package views

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"sharkfin/internal/backend"
	"sharkfin/internal/core"
	"sharkfin/internal/daterange"
)

// DashboardView is everything the dashboard page renders for one range.
type DashboardView struct {
	Preset   daterange.Preset
	Range    daterange.Range
	Report   core.DashboardReport
	Accounts []core.Account
	Budgets  []core.Budget
}

// BuildDashboard fetches the report, accounts and budgets in parallel. The
// three calls are independent reads; the first failure cancels the rest.
func BuildDashboard(ctx context.Context, b backend.Backend, preset daterange.Preset, rng daterange.Range) (DashboardView, error) {
	view := DashboardView{Preset: preset, Range: rng}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := b.Dashboard(gctx, rng.Start, rng.End)
		if err != nil {
			return fmt.Errorf("dashboard report: %w", err)
		}
		view.Report = report
		return nil
	})
	g.Go(func() error {
		accounts, err := b.ListAccounts(gctx, false)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		view.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		budgets, err := b.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		view.Budgets = budgets
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}
	return view, nil
}

// ExceededBudgets returns the budgets whose spending passed the cap, for
// the warning strip at the top of the dashboard.
func (v DashboardView) ExceededBudgets() []core.Budget {
	var out []core.Budget
	for _, b := range v.Budgets {
		if b.Exceeded() {
			out = append(out, b)
		}
	}
	return out
}
