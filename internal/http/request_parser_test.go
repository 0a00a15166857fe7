package http

import (
	"net/url"
	"testing"
	"time"

	"sharkfin/internal/core"
	"sharkfin/internal/daterange"
)

func TestParseTransactionForm(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantErr bool
	}{
		{
			name: "valid",
			form: url.Values{
				"account_id":  {"a1"},
				"amount":      {"-12.30"},
				"description": {"Coffee"},
				"date":        {"2026-08-26"},
			},
		},
		{
			name: "comma decimal separator",
			form: url.Values{
				"account_id":  {"a1"},
				"amount":      {"-12,30"},
				"description": {"Coffee"},
			},
		},
		{
			name: "missing account",
			form: url.Values{
				"amount":      {"-12.30"},
				"description": {"Coffee"},
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			form: url.Values{
				"account_id":  {"a1"},
				"amount":      {"0"},
				"description": {"Coffee"},
			},
			wantErr: true,
		},
		{
			name: "bad date",
			form: url.Values{
				"account_id":  {"a1"},
				"amount":      {"1"},
				"description": {"Coffee"},
				"date":        {"26/08/2026"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := parseTransactionForm(tt.form)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", tx)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.AccountID != "a1" {
				t.Errorf("AccountID = %q", tx.AccountID)
			}
			if tx.Amount.String() != "-12.3" {
				t.Errorf("Amount = %s, want -12.3", tx.Amount)
			}
		})
	}
}

func TestParseTransactionForm_DefaultsDateToToday(t *testing.T) {
	form := url.Values{
		"account_id":  {"a1"},
		"amount":      {"5"},
		"description": {"Misc"},
	}
	tx, err := parseTransactionForm(form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Date != core.DateOf(time.Now()) {
		t.Errorf("Date = %s, want today", tx.Date)
	}
}

func TestParseRuleForm(t *testing.T) {
	form := url.Values{
		"name":            {"Coffee shops"},
		"payee_pattern":   {"espresso"},
		"set_category_id": {"c1"},
		"min_amount":      {"1.00"},
		"max_amount":      {"20"},
		"priority":        {"5"},
	}
	rule, err := parseRuleForm(form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.Priority != 5 {
		t.Errorf("Priority = %d, want 5", rule.Priority)
	}
	if rule.MinAmount == nil || rule.MinAmount.String() != "1" {
		t.Errorf("MinAmount = %v, want 1", rule.MinAmount)
	}

	// Inverted amount bounds are rejected at the form level.
	form.Set("min_amount", "50")
	if _, err := parseRuleForm(form); err == nil {
		t.Fatal("expected error for min > max")
	}

	// A rule with no condition is rejected.
	if _, err := parseRuleForm(url.Values{
		"name":            {"empty"},
		"set_category_id": {"c1"},
	}); err == nil {
		t.Fatal("expected error for rule without conditions")
	}
}

func TestParseRangeParams(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	preset, rng, err := parseRangeParams(url.Values{}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset != daterange.MonthToDate {
		t.Errorf("preset = %s, want month_to_date", preset)
	}
	if rng.Start != core.NewDate(2026, 8, 1) || rng.End != core.NewDate(2026, 8, 26) {
		t.Errorf("range = %s..%s", rng.Start, rng.End)
	}

	_, _, err = parseRangeParams(url.Values{"preset": {"fortnight"}}, now)
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}

	preset, rng, err = parseRangeParams(url.Values{
		"preset":     {"custom"},
		"start_date": {"2026-03-01"},
		"end_date":   {"2026-03-31"},
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset != daterange.Custom {
		t.Errorf("preset = %s, want custom", preset)
	}
	if rng.Start != core.NewDate(2026, 3, 1) || rng.End != core.NewDate(2026, 3, 31) {
		t.Errorf("range = %s..%s", rng.Start, rng.End)
	}
}

func TestParseWindowParams(t *testing.T) {
	scrollTop, viewportHeight := parseWindowParams(url.Values{
		"scroll_top":      {"480"},
		"viewport_height": {"720"},
	})
	if scrollTop != 480 || viewportHeight != 720 {
		t.Errorf("got %d/%d, want 480/720", scrollTop, viewportHeight)
	}

	// Garbage and negatives fall back to usable defaults.
	scrollTop, viewportHeight = parseWindowParams(url.Values{
		"scroll_top":      {"-10"},
		"viewport_height": {"abc"},
	})
	if scrollTop != 0 || viewportHeight != 600 {
		t.Errorf("got %d/%d, want 0/600", scrollTop, viewportHeight)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  hello\x00world\t "); got != "helloworld" {
		t.Errorf("sanitizeInput = %q, want %q", got, "helloworld")
	}
	if got := sanitizeInput("line1\nline2"); got != "line1\nline2" {
		t.Errorf("sanitizeInput kept newline = %q", got)
	}
}
