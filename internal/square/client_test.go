package square

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListPayments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/payments", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		q := r.URL.Query()
		require.Equal(t, "2024-04-01T00:00:00+08:00", q.Get("begin_time"))
		require.Equal(t, "L1", q.Get("location_id"))
		require.Equal(t, "200", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		if q.Get("cursor") == "" {
			w.Write([]byte(`{"payments":[{"id":"p1","amount_money":{"amount":10000,"currency":"USD"},"created_at":"2024-04-01T12:00:00Z","status":"COMPLETED","order_id":"o1"}],"cursor":"next"}`))
			return
		}
		require.Equal(t, "next", q.Get("cursor"))
		w.Write([]byte(`{"payments":[{"id":"p2","amount_money":{"amount":500,"currency":"USD"},"created_at":"2024-04-01T13:00:00Z","status":"COMPLETED"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-token", "production", WithBaseURL(srv.URL))
	ctx := context.Background()

	params := ListPaymentsParams{
		BeginTime:  "2024-04-01T00:00:00+08:00",
		EndTime:    "2024-04-08T00:00:00+08:00",
		LocationID: "L1",
	}

	page1, err := c.ListPayments(ctx, params)
	require.NoError(t, err)
	require.Len(t, page1.Payments, 1)
	require.Equal(t, "p1", page1.Payments[0].ID)
	require.Equal(t, int64(10000), page1.Payments[0].AmountMoney.Amount)
	require.Equal(t, "next", page1.Cursor)

	params.Cursor = page1.Cursor
	page2, err := c.ListPayments(ctx, params)
	require.NoError(t, err)
	require.Len(t, page2.Payments, 1)
	require.Empty(t, page2.Cursor, "last page must carry no cursor")
}

func TestListPayments_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"category":"AUTHENTICATION_ERROR","code":"UNAUTHORIZED","detail":"bad token"}]}`))
	}))
	defer srv.Close()

	c := NewClient("bad", "production", WithBaseURL(srv.URL))
	_, err := c.ListPayments(context.Background(), ListPaymentsParams{LocationID: "L1"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
	require.Equal(t, "UNAUTHORIZED", apiErr.Errors[0].Code)
}

func TestRetrieveOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/orders/o1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order":{"id":"o1","line_items":[{"name":"牛肉麵","quantity":"1","base_price_money":{"amount":10000,"currency":"USD"},"total_money":{"amount":10000,"currency":"USD"}}]}}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "production", WithBaseURL(srv.URL))
	resp, err := c.RetrieveOrder(context.Background(), "o1")
	require.NoError(t, err)
	require.NotNil(t, resp.Order)
	require.Len(t, resp.Order.LineItems, 1)
	require.Equal(t, "牛肉麵", resp.Order.LineItems[0].Name)
	require.Equal(t, "1", resp.Order.LineItems[0].Quantity)
}

func TestListLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/locations", r.URL.Path)
		w.Write([]byte(`{"locations":[{"id":"L1","name":"Taiwanway","status":"ACTIVE","created_at":"2024-01-01T00:00:00Z","address":{"address_line_1":"1 Main St","locality":"Boston","country":"US"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("tok", "production", WithBaseURL(srv.URL))
	resp, err := c.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Locations, 1)
	require.Equal(t, "Taiwanway", resp.Locations[0].Name)
}

func TestMoneyMajor(t *testing.T) {
	require.Equal(t, 123.45, Money{Amount: 12345}.Major())
	require.Equal(t, 0.0, Money{}.Major())
}
