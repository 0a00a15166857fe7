// Package backend defines the ports the page layer consumes. The REST API
// client satisfies all of them; tests substitute fakes per interface.
package backend

import (
	"context"

	"sharkfin/internal/api"
	"sharkfin/internal/core"
)

type (
	AccountService interface {
		ListAccounts(ctx context.Context, includeArchived bool) ([]core.Account, error)
		GetAccount(ctx context.Context, id string) (core.Account, error)
		CreateAccount(ctx context.Context, acc core.Account) (core.Account, error)
		UpdateAccount(ctx context.Context, acc core.Account) (core.Account, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	TransactionService interface {
		ListTransactions(ctx context.Context, filter api.TransactionFilter) (api.Page[core.Transaction], error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryService interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, cat core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, cat core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	BudgetService interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id string) error
	}

	PayeeService interface {
		ListPayees(ctx context.Context) ([]core.Payee, error)
		SuggestPayees(ctx context.Context, q string, limit int) ([]core.PayeeSuggestion, error)
	}

	RuleService interface {
		ListRules(ctx context.Context) ([]core.Rule, error)
		CreateRule(ctx context.Context, r core.Rule) (core.Rule, error)
		UpdateRule(ctx context.Context, r core.Rule) (core.Rule, error)
		DeleteRule(ctx context.Context, id string) error
		PreviewRule(ctx context.Context, r core.Rule, limit int) (api.RulePreview, error)
	}

	ReportReader interface {
		Dashboard(ctx context.Context, start, end core.Date) (core.DashboardReport, error)
	}
)

// Backend is the full surface the page layer needs; *api.Client implements
// it, and handlers receive per-session token-scoped instances.
type Backend interface {
	AccountService
	TransactionService
	CategoryService
	BudgetService
	PayeeService
	RuleService
	ReportReader
}

// Connector mints a Backend scoped to one session's bearer token.
type Connector interface {
	WithToken(token string) Backend
}

// ClientConnector adapts *api.Client to the Connector port.
type ClientConnector struct {
	Client *api.Client
}

func (c ClientConnector) WithToken(token string) Backend {
	return c.Client.WithToken(token)
}

// Compile-time check that the API client covers the whole surface.
var _ Backend = (*api.Client)(nil)
