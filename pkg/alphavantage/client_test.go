package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-api-key", WithBaseURL(srv.URL))
}

func TestSymbolSearch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "SYMBOL_SEARCH", r.URL.Query().Get("function"))
		assert.Equal(t, "Tesla", r.URL.Query().Get("keywords"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("apikey"))

		w.Write([]byte(`{
			"bestMatches": [
				{"1. symbol": "TSLA", "2. name": "Tesla Inc", "4. region": "United States", "9. matchScore": "0.8889"},
				{"1. symbol": "TL0.DEX", "2. name": "Tesla Inc", "4. region": "XETRA", "9. matchScore": "0.5714"}
			]
		}`))
	})

	resp, err := c.SymbolSearch(context.Background(), "Tesla")
	require.NoError(t, err)
	require.Len(t, resp.BestMatches, 2)
	assert.Equal(t, "TSLA", resp.BestMatches[0].Symbol)
	assert.Equal(t, "0.8889", resp.BestMatches[0].MatchScore)
}

func TestSymbolSearchNoMatches(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bestMatches": []}`))
	})

	resp, err := c.SymbolSearch(context.Background(), "Some Private Startup")
	require.NoError(t, err)
	assert.Empty(t, resp.BestMatches)
}

func TestGlobalQuote(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "TSLA", r.URL.Query().Get("symbol"))

		w.Write([]byte(`{
			"Global Quote": {
				"01. symbol": "TSLA",
				"05. price": "242.8400",
				"06. volume": "102538712",
				"10. change percent": "-1.2345%"
			}
		}`))
	})

	resp, err := c.GlobalQuote(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", resp.Quote.Symbol)
	assert.Equal(t, "242.8400", resp.Quote.Price)
}

func TestCompanyOverview(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		assert.Equal(t, "TSLA", r.URL.Query().Get("symbol"))

		w.Write([]byte(`{
			"Symbol": "TSLA",
			"Name": "Tesla Inc",
			"Sector": "MANUFACTURING",
			"MarketCapitalization": "779000000000",
			"RevenueTTM": "96773000000",
			"ProfitMargin": "0.132",
			"QuarterlyRevenueGrowthYOY": "0.078"
		}`))
	})

	resp, err := c.CompanyOverview(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, "Tesla Inc", resp.Name)
	assert.Equal(t, "779000000000", resp.MarketCapitalization)
	assert.Equal(t, "0.078", resp.QuarterlyRevenueGrowthYOY)
}

func TestThrottledNote(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := c.GlobalQuote(context.Background(), "TSLA")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThrottled)
}

func TestErrorMessageEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := c.CompanyOverview(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API call")
}

func TestUnexpectedStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`down`))
	})

	_, err := c.SymbolSearch(context.Background(), "Tesla")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestContextCancellation(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should have been cancelled")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GlobalQuote(ctx, "TSLA")
	require.Error(t, err)
}
