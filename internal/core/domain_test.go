package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		AccountID:   "acc-1",
		Date:        NewDate(2026, 8, 12),
		Amount:      dec("-42.50"),
		Description: "Grocery run",
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(tx *Transaction) {}},
		{
			name:    "missing account",
			mutate:  func(tx *Transaction) { tx.AccountID = "  " },
			wantErr: ErrEmptyAccount,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = decimal.Zero },
			wantErr: ErrZeroAmount,
		},
		{
			name:    "empty description",
			mutate:  func(tx *Transaction) { tx.Description = "" },
			wantErr: ErrEmptyDescription,
		},
		{
			name:   "zero date",
			mutate: func(tx *Transaction) { tx.Date = Date{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.name == "valid" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRule_Validate(t *testing.T) {
	min := dec("5")
	max := dec("100")
	maxBelow := dec("1")

	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{
			name: "payee pattern with category action",
			rule: Rule{Name: "Coffee shops", PayeePattern: "coffee", SetCategoryID: "cat-1"},
		},
		{
			name: "amount bounds with rename action",
			rule: Rule{Name: "Big purchases", MinAmount: &min, MaxAmount: &max, RenamePayeeTo: "Big Store"},
		},
		{
			name:    "no condition",
			rule:    Rule{Name: "Empty", SetCategoryID: "cat-1"},
			wantErr: ErrNoRuleCondition,
		},
		{
			name:    "no action",
			rule:    Rule{Name: "Toothless", PayeePattern: "x"},
			wantErr: ErrNoRuleAction,
		},
		{
			name:    "inverted amount bounds",
			rule:    Rule{Name: "Backwards", MinAmount: &min, MaxAmount: &maxBelow, SetCategoryID: "cat-1"},
			wantErr: ErrAmountBounds,
		},
		{
			name:    "empty name",
			rule:    Rule{PayeePattern: "x", SetCategoryID: "cat-1"},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBudget_Progress(t *testing.T) {
	tests := []struct {
		name     string
		limit    string
		spent    string
		want     float64
		exceeded bool
	}{
		{name: "half spent", limit: "200", spent: "100", want: 0.5},
		{name: "over budget clamps", limit: "100", spent: "150", want: 1, exceeded: true},
		{name: "nothing spent", limit: "100", spent: "0", want: 0},
		{name: "zero limit", limit: "0", spent: "10", want: 0, exceeded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Budget{CategoryID: "c", Period: BudgetMonthly, Limit: dec(tt.limit), Spent: dec(tt.spent)}
			if got := b.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
			if got := b.Exceeded(); got != tt.exceeded {
				t.Errorf("Exceeded() = %v, want %v", got, tt.exceeded)
			}
		})
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2026, 2, 28)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-02-28"` {
		t.Fatalf("marshal = %s, want %q", b, "2026-02-28")
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}

	var fromNull Date
	if err := json.Unmarshal([]byte("null"), &fromNull); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !fromNull.IsZero() {
		t.Errorf("null should decode to zero date, got %v", fromNull)
	}
}

func TestDashboardReport_TopCategory(t *testing.T) {
	r := DashboardReport{
		TotalIncome:   dec("3000"),
		TotalSpending: dec("1800"),
		SpendingByCategory: []CategoryAmount{
			{Name: "Groceries", Amount: dec("600")},
			{Name: "Rent", Amount: dec("1000")},
			{Name: "Fun", Amount: dec("200")},
		},
	}

	top, ok := r.TopCategory()
	if !ok || top.Name != "Rent" {
		t.Errorf("TopCategory() = %v %v, want Rent", top, ok)
	}
	if !r.Net().Equal(dec("1200")) {
		t.Errorf("Net() = %v, want 1200", r.Net())
	}

	empty := DashboardReport{}
	if _, ok := empty.TopCategory(); ok {
		t.Error("TopCategory() on empty report should report not found")
	}
}
