// This file parses and validates form and query input into domain values.
// It consolidates the repeated trim/sanitize/convert patterns the form
// handlers would otherwise duplicate.
package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sharkfin/internal/api"
	"sharkfin/internal/core"
	"sharkfin/internal/daterange"
)

// formValue returns a trimmed, sanitized form value.
func formValue(form url.Values, key string) string {
	return sanitizeInput(form.Get(key))
}

// parseAmount parses a decimal amount form value.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// parseOptionalAmount parses an amount that may be left blank.
func parseOptionalAmount(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := parseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseTransactionForm builds a transaction from form values. Validation
// beyond form-level checks stays with the backend.
func parseTransactionForm(form url.Values) (core.Transaction, error) {
	amount, err := parseAmount(form.Get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:          formValue(form, "id"),
		AccountID:   formValue(form, "account_id"),
		Amount:      amount,
		Description: formValue(form, "description"),
		PayeeID:     formValue(form, "payee_id"),
		CategoryID:  formValue(form, "category_id"),
		Notes:       formValue(form, "notes"),
	}

	if v := formValue(form, "date"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("invalid date %q", v)
		}
		tx.Date = d
	} else {
		tx.Date = core.DateOf(time.Now())
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// parseAccountForm builds an account from form values.
func parseAccountForm(form url.Values) (core.Account, error) {
	acc := core.Account{
		ID:          formValue(form, "id"),
		Name:        formValue(form, "name"),
		Type:        core.AccountType(formValue(form, "type")),
		Institution: formValue(form, "institution"),
		Currency:    formValue(form, "currency"),
		Archived:    form.Get("archived") == "on" || form.Get("archived") == "true",
	}
	if acc.Currency == "" {
		acc.Currency = "EUR"
	}
	if err := acc.Validate(); err != nil {
		return core.Account{}, err
	}
	return acc, nil
}

// parseCategoryForm builds a category from form values.
func parseCategoryForm(form url.Values) (core.Category, error) {
	cat := core.Category{
		ID:       formValue(form, "id"),
		Name:     formValue(form, "name"),
		Type:     core.CategoryType(formValue(form, "type")),
		ParentID: formValue(form, "parent_id"),
	}
	if err := cat.Validate(); err != nil {
		return core.Category{}, err
	}
	return cat, nil
}

// parseBudgetForm builds a budget from form values.
func parseBudgetForm(form url.Values) (core.Budget, error) {
	limit, err := parseAmount(form.Get("limit"))
	if err != nil {
		return core.Budget{}, err
	}
	b := core.Budget{
		ID:         formValue(form, "id"),
		CategoryID: formValue(form, "category_id"),
		Period:     core.BudgetPeriod(formValue(form, "period")),
		Limit:      limit,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// parseRuleForm builds a categorization rule from form values.
func parseRuleForm(form url.Values) (core.Rule, error) {
	minAmount, err := parseOptionalAmount(form.Get("min_amount"))
	if err != nil {
		return core.Rule{}, err
	}
	maxAmount, err := parseOptionalAmount(form.Get("max_amount"))
	if err != nil {
		return core.Rule{}, err
	}

	rule := core.Rule{
		ID:                 formValue(form, "id"),
		Name:               formValue(form, "name"),
		PayeePattern:       formValue(form, "payee_pattern"),
		DescriptionPattern: formValue(form, "description_pattern"),
		MinAmount:          minAmount,
		MaxAmount:          maxAmount,
		SetCategoryID:      formValue(form, "set_category_id"),
		RenamePayeeTo:      formValue(form, "rename_payee_to"),
	}
	if v := formValue(form, "priority"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return core.Rule{}, fmt.Errorf("invalid priority %q", v)
		}
		rule.Priority = p
	}
	if err := rule.Validate(); err != nil {
		return core.Rule{}, err
	}
	return rule, nil
}

// parseRangeParams resolves the date-range preset from query parameters,
// falling back to month-to-date. Custom ranges read start/end; a missing
// or inverted pair degrades per the resolver's rules instead of erroring.
func parseRangeParams(query url.Values, now time.Time) (daterange.Preset, daterange.Range, error) {
	preset := daterange.Preset(strings.TrimSpace(query.Get("preset")))
	if preset == "" {
		preset = daterange.MonthToDate
	}

	if preset == daterange.Custom {
		var start, end *core.Date
		if v := strings.TrimSpace(query.Get("start_date")); v != "" {
			d, err := core.ParseDate(v)
			if err != nil {
				return preset, daterange.Range{}, fmt.Errorf("invalid start_date %q", v)
			}
			start = &d
		}
		if v := strings.TrimSpace(query.Get("end_date")); v != "" {
			d, err := core.ParseDate(v)
			if err != nil {
				return preset, daterange.Range{}, fmt.Errorf("invalid end_date %q", v)
			}
			end = &d
		}
		return preset, daterange.ResolveCustom(start, end, now), nil
	}

	rng, err := daterange.Resolve(preset, now)
	if err != nil {
		return preset, daterange.Range{}, err
	}
	return preset, rng, nil
}

// parseWindowParams reads the scroll position the window partial renders for.
func parseWindowParams(query url.Values) (scrollTop, viewportHeight int) {
	scrollTop = atoiDefault(query.Get("scroll_top"), 0)
	viewportHeight = atoiDefault(query.Get("viewport_height"), 600)
	if scrollTop < 0 {
		scrollTop = 0
	}
	if viewportHeight <= 0 {
		viewportHeight = 600
	}
	return scrollTop, viewportHeight
}

// parseTransactionFilter reads the listing filter from query parameters.
func parseTransactionFilter(query url.Values) (api.TransactionFilter, error) {
	filter := api.TransactionFilter{
		AccountID:  strings.TrimSpace(query.Get("account_id")),
		CategoryID: strings.TrimSpace(query.Get("category_id")),
		Search:     sanitizeInput(query.Get("search")),
	}
	if v := strings.TrimSpace(query.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return api.TransactionFilter{}, fmt.Errorf("invalid start_date %q", v)
		}
		filter.StartDate = d
	}
	if v := strings.TrimSpace(query.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return api.TransactionFilter{}, fmt.Errorf("invalid end_date %q", v)
		}
		filter.EndDate = d
	}
	return filter, nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on
// failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
