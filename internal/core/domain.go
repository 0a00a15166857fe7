package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

const (
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

type (
	AccountType  string
	CategoryType string
	BudgetPeriod string

	// Date is a day-granular calendar date as the backend serializes it
	// (YYYY-MM-DD, no time-of-day, no zone).
	Date struct {
		time.Time
	}

	// Account mirrors the backend account resource. The backend owns the
	// balance; this tier never computes one.
	Account struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Type        AccountType     `json:"type"`
		Institution string          `json:"institution,omitempty"`
		Currency    string          `json:"currency"`
		Balance     decimal.Decimal `json:"balance"`
		Archived    bool            `json:"archived"`
	}

	// Transaction mirrors the backend transaction resource. PayeeName and
	// CategoryName are denormalized display fields supplied by the backend.
	Transaction struct {
		ID           string          `json:"id"`
		AccountID    string          `json:"account_id"`
		Date         Date            `json:"date"`
		Amount       decimal.Decimal `json:"amount"`
		Description  string          `json:"description"`
		PayeeID      string          `json:"payee_id,omitempty"`
		PayeeName    string          `json:"payee_name,omitempty"`
		CategoryID   string          `json:"category_id,omitempty"`
		CategoryName string          `json:"category_name,omitempty"`
		Notes        string          `json:"notes,omitempty"`
		Pending      bool            `json:"pending"`
	}

	Category struct {
		ID       string       `json:"id"`
		Name     string       `json:"name"`
		Type     CategoryType `json:"type"`
		ParentID string       `json:"parent_id,omitempty"`
	}

	// Budget carries backend-reported progress; Spent is computed on the
	// server side and only displayed here.
	Budget struct {
		ID           string          `json:"id"`
		CategoryID   string          `json:"category_id"`
		CategoryName string          `json:"category_name,omitempty"`
		Period       BudgetPeriod    `json:"period"`
		Limit        decimal.Decimal `json:"limit"`
		Spent        decimal.Decimal `json:"spent"`
	}

	Payee struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		DefaultCategoryID string `json:"default_category_id,omitempty"`
		Icon              string `json:"icon,omitempty"`
	}

	// PayeeSuggestion is one entry from the server-side suggestion endpoint.
	PayeeSuggestion struct {
		Payee Payee   `json:"payee"`
		Score float64 `json:"score"`
	}

	// Rule mirrors a server-evaluated categorization rule. Matching runs on
	// the backend; this tier only edits rules and displays previews.
	Rule struct {
		ID                 string           `json:"id"`
		Name               string           `json:"name"`
		PayeePattern       string           `json:"payee_pattern,omitempty"`
		DescriptionPattern string           `json:"description_pattern,omitempty"`
		MinAmount          *decimal.Decimal `json:"min_amount,omitempty"`
		MaxAmount          *decimal.Decimal `json:"max_amount,omitempty"`
		SetCategoryID      string           `json:"set_category_id,omitempty"`
		RenamePayeeTo      string           `json:"rename_payee_to,omitempty"`
		Priority           int              `json:"priority"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyAccount     = errors.New("missing account")
	ErrZeroAmount       = errors.New("amount cannot be zero")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidType      = errors.New("invalid type")
	ErrNoRuleCondition  = errors.New("rule needs at least one condition")
	ErrNoRuleAction     = errors.New("rule needs at least one action")
	ErrAmountBounds     = errors.New("min amount exceeds max amount")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a backend date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate performs the superficial form-level checks this tier is allowed
// to make. The backend remains authoritative for everything else.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	switch a.Type {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountInvestment, AccountCash:
	default:
		return ErrInvalidType
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccount
	}
	if t.Amount.IsZero() {
		return ErrZeroAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	switch c.Type {
	case CategoryExpense, CategoryIncome:
	default:
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return errors.New("missing category")
	}
	switch b.Period {
	case BudgetMonthly, BudgetYearly:
	default:
		return ErrInvalidType
	}
	if !b.Limit.IsPositive() {
		return errors.New("limit must be positive")
	}
	return nil
}

// Progress returns spent/limit clamped to [0, 1] for progress bars.
func (b Budget) Progress() float64 {
	if !b.Limit.IsPositive() {
		return 0
	}
	p, _ := b.Spent.Div(b.Limit).Float64()
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Exceeded reports whether backend-reported spending passed the cap.
func (b Budget) Exceeded() bool {
	return b.Spent.GreaterThan(b.Limit)
}

func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	hasCondition := strings.TrimSpace(r.PayeePattern) != "" ||
		strings.TrimSpace(r.DescriptionPattern) != "" ||
		r.MinAmount != nil || r.MaxAmount != nil
	if !hasCondition {
		return ErrNoRuleCondition
	}
	if r.SetCategoryID == "" && strings.TrimSpace(r.RenamePayeeTo) == "" {
		return ErrNoRuleAction
	}
	if r.MinAmount != nil && r.MaxAmount != nil && r.MinAmount.GreaterThan(*r.MaxAmount) {
		return ErrAmountBounds
	}
	return nil
}
