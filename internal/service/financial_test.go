package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/companyintel/pkg/alphavantage"
)

// fakeAV implements alphavantage.Client.
type fakeAV struct {
	search   *alphavantage.SymbolSearchResponse
	quote    *alphavantage.GlobalQuoteResponse
	overview *alphavantage.CompanyOverview

	searchErr   error
	quoteErr    error
	overviewErr error
}

func (f *fakeAV) SymbolSearch(context.Context, string) (*alphavantage.SymbolSearchResponse, error) {
	return f.search, f.searchErr
}

func (f *fakeAV) GlobalQuote(context.Context, string) (*alphavantage.GlobalQuoteResponse, error) {
	return f.quote, f.quoteErr
}

func (f *fakeAV) CompanyOverview(context.Context, string) (*alphavantage.CompanyOverview, error) {
	return f.overview, f.overviewErr
}

func TestFinancialFetch_PublicCompany(t *testing.T) {
	av := &fakeAV{
		search: &alphavantage.SymbolSearchResponse{
			BestMatches: []alphavantage.SymbolMatch{
				{Symbol: "TSLA", Region: "United States", MatchScore: "0.89"},
				{Symbol: "TL0.DEX", Region: "XETRA", MatchScore: "0.95"},
			},
		},
		quote: &alphavantage.GlobalQuoteResponse{
			Quote: alphavantage.GlobalQuote{Symbol: "TSLA", Price: "242.84"},
		},
		overview: &alphavantage.CompanyOverview{
			MarketCapitalization:      "779000000000",
			RevenueTTM:                "96773000000",
			QuarterlyRevenueGrowthYOY: "0.078",
			ProfitMargin:              "0.132",
		},
	}
	svc := NewFinancialService(av, "key")

	fin, err := svc.Fetch(context.Background(), "Tesla")
	require.NoError(t, err)
	assert.Equal(t, "public", fin.Status)
	require.NotNil(t, fin.StockSymbol)
	assert.Equal(t, "TSLA", *fin.StockSymbol) // non-US listing skipped
	require.NotNil(t, fin.StockPrice)
	assert.Equal(t, 242.84, *fin.StockPrice)
	require.NotNil(t, fin.MarketCap)
	assert.Equal(t, 7.79e11, *fin.MarketCap)
	assert.Equal(t, "profitable", fin.ProfitabilityStatus)
}

func TestFinancialFetch_PrivateCompany(t *testing.T) {
	av := &fakeAV{search: &alphavantage.SymbolSearchResponse{}}
	svc := NewFinancialService(av, "key")

	fin, err := svc.Fetch(context.Background(), "Some Startup")
	require.NoError(t, err)
	assert.Equal(t, "private", fin.Status)
	assert.Nil(t, fin.StockSymbol)
	assert.Equal(t, "unknown", fin.ProfitabilityStatus)
}

func TestFinancialFetch_LowMatchScoreIsPrivate(t *testing.T) {
	av := &fakeAV{
		search: &alphavantage.SymbolSearchResponse{
			BestMatches: []alphavantage.SymbolMatch{
				{Symbol: "XYZ", Region: "United States", MatchScore: "0.30"},
			},
		},
	}
	svc := NewFinancialService(av, "key")

	fin, err := svc.Fetch(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "private", fin.Status)
}

func TestFinancialFetch_NoKey(t *testing.T) {
	svc := NewFinancialService(&fakeAV{}, "")

	fin, err := svc.Fetch(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "private", fin.Status)
}

func TestFinancialFetch_Throttled(t *testing.T) {
	av := &fakeAV{searchErr: alphavantage.ErrThrottled}
	svc := NewFinancialService(av, "key")

	fin, err := svc.Fetch(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "private", fin.Status)
}

func TestFinancialFetch_TransportError(t *testing.T) {
	av := &fakeAV{searchErr: assert.AnError}
	svc := NewFinancialService(av, "key")

	_, err := svc.Fetch(context.Background(), "Acme")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRequestFailed))
}

func TestFinancialFetch_QuoteFailureIsPartial(t *testing.T) {
	av := &fakeAV{
		search: &alphavantage.SymbolSearchResponse{
			BestMatches: []alphavantage.SymbolMatch{
				{Symbol: "TSLA", Region: "United States", MatchScore: "0.9"},
			},
		},
		quoteErr:    assert.AnError,
		overviewErr: assert.AnError,
	}
	svc := NewFinancialService(av, "key")

	fin, err := svc.Fetch(context.Background(), "Tesla")
	require.NoError(t, err)
	assert.Equal(t, "public", fin.Status)
	assert.Nil(t, fin.StockPrice)
}
