package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkfin/internal/core"
)

func TestClient_BearerTokenAndQuery(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [], "total": 0, "offset": 0, "limit": 50}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL).WithToken("tok-123")
	_, err := c.ListTransactions(context.Background(), TransactionFilter{
		AccountID: "acc-1",
		StartDate: core.NewDate(2026, 8, 1),
		EndDate:   core.NewDate(2026, 8, 26),
		Limit:     50,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/v1/transactions", gotPath)
	assert.Contains(t, gotQuery, "account_id=acc-1")
	assert.Contains(t, gotQuery, "start_date=2026-08-01")
	assert.Contains(t, gotQuery, "end_date=2026-08-26")
	assert.Contains(t, gotQuery, "limit=50")
}

func TestClient_WithTokenDoesNotMutateOriginal(t *testing.T) {
	base := NewClient("http://example.test")
	withTok := base.WithToken("abc")

	assert.Empty(t, base.token)
	assert.Equal(t, "abc", withTok.token)
	assert.Same(t, base.httpClient, withTok.httpClient)
}

func TestClient_PageHasMore(t *testing.T) {
	tests := []struct {
		name string
		page Page[core.Transaction]
		want bool
	}{
		{name: "more pages", page: Page[core.Transaction]{Items: make([]core.Transaction, 50), Total: 120, Offset: 0}, want: true},
		{name: "last page", page: Page[core.Transaction]{Items: make([]core.Transaction, 20), Total: 120, Offset: 100}, want: false},
		{name: "empty", page: Page[core.Transaction]{Total: 0}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.HasMore())
		})
	}
}

func TestClient_ErrorDetailString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail": "account has transactions and cannot be deleted"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).DeleteAccount(context.Background(), "acc-1")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "account has transactions and cannot be deleted", apiErr.Detail)
}

func TestClient_ErrorDetailValidationArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [
			{"loc": ["body", "amount"], "msg": "value is not a valid decimal", "type": "type_error.decimal"},
			{"loc": ["body", "date"], "msg": "invalid date format", "type": "value_error.date"}
		]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CreateTransaction(context.Background(), core.Transaction{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "amount: value is not a valid decimal; date: invalid date format", apiErr.Detail)
}

func TestClient_ErrorGarbageBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>upstream broke</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListBudgets(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "502")
}

func TestClient_UnauthorizedSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "token expired"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListAccounts(context.Background(), false)
	assert.True(t, errors.Is(err, ErrUnauthorized), "401 must map to ErrUnauthorized, got %v", err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_NotFoundSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "no such transaction"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetTransaction(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_SuggestPayees(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payees/suggestions", r.URL.Path)
		assert.Equal(t, "caff", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"suggestions": [
			{"payee": {"id": "p1", "name": "Caffe Nero", "icon": "coffee"}, "score": 0.92}
		]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).SuggestPayees(context.Background(), "caff", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Caffe Nero", got[0].Payee.Name)
	assert.Equal(t, 0.92, got[0].Score)
}

func TestClient_PreviewRulePostsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/rules/preview", r.URL.Path)
		_, _ = w.Write([]byte(`{"matches": [
			{"id": "t1", "account_id": "a1", "date": "2026-08-01", "amount": "-4.50", "description": "CAFFE NERO 42"}
		], "total": 17}`))
	}))
	defer srv.Close()

	preview, err := NewClient(srv.URL).PreviewRule(context.Background(), core.Rule{
		Name:          "Coffee",
		PayeePattern:  "caffe",
		SetCategoryID: "cat-coffee",
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, 17, preview.Total)
	require.Len(t, preview.Matches, 1)
	assert.Equal(t, "CAFFE NERO 42", preview.Matches[0].Description)
}

func TestClient_DashboardRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-08-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-08-26", r.URL.Query().Get("end_date"))
		_, _ = w.Write([]byte(`{
			"start_date": "2026-08-01", "end_date": "2026-08-26",
			"net_worth": "15230.44", "total_income": "3000", "total_spending": "1800.10",
			"spending_by_category": [{"name": "Rent", "amount": "1000"}]
		}`))
	}))
	defer srv.Close()

	report, err := NewClient(srv.URL).Dashboard(context.Background(), core.NewDate(2026, 8, 1), core.NewDate(2026, 8, 26))
	require.NoError(t, err)
	assert.Equal(t, "1199.9", report.Net().String())
	top, ok := report.TopCategory()
	require.True(t, ok)
	assert.Equal(t, "Rent", top.Name)
}
