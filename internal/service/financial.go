package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/pkg/alphavantage"
)

// FinancialService resolves a company name to a ticker and maps market data
// to the financials section. Companies that do not resolve to a traded
// symbol get the private-company default structure rather than an error.
type FinancialService struct {
	av     alphavantage.Client
	apiKey string
}

// NewFinancialService creates the financial provider.
func NewFinancialService(av alphavantage.Client, apiKey string) *FinancialService {
	return &FinancialService{av: av, apiKey: apiKey}
}

// Fetch gathers financial data for the company.
func (s *FinancialService) Fetch(ctx context.Context, companyName string) (model.Financials, error) {
	if s.apiKey == "" {
		zap.L().Warn("alphavantage key not configured, returning private defaults",
			zap.String("company", companyName))
		return privateFinancials(), nil
	}

	search, err := s.av.SymbolSearch(ctx, companyName)
	if err != nil {
		if errors.Is(err, alphavantage.ErrThrottled) {
			zap.L().Warn("alphavantage throttled, returning private defaults",
				zap.String("company", companyName))
			return privateFinancials(), nil
		}
		return model.Financials{}, E(KindRequestFailed, "financials", err)
	}

	symbol := bestSymbol(search)
	if symbol == "" {
		zap.L().Info("no traded symbol found, treating as private",
			zap.String("company", companyName))
		return privateFinancials(), nil
	}

	fin := privateFinancials()
	fin.Status = "public"
	fin.StockSymbol = &symbol

	quote, err := s.av.GlobalQuote(ctx, symbol)
	if err != nil {
		zap.L().Warn("quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else if price, ok := parseFloat(quote.Quote.Price); ok {
		fin.StockPrice = &price
	}

	overview, err := s.av.CompanyOverview(ctx, symbol)
	if err != nil {
		zap.L().Warn("overview lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return fin, nil
	}
	if cap, ok := parseFloat(overview.MarketCapitalization); ok {
		fin.MarketCap = &cap
	}
	if rev, ok := parseFloat(overview.RevenueTTM); ok {
		fin.RevenueEstimate = &rev
	}
	if growth, ok := parseFloat(overview.QuarterlyRevenueGrowthYOY); ok {
		fin.RevenueGrowthYoY = &growth
	}
	if margin, ok := parseFloat(overview.ProfitMargin); ok {
		if margin > 0 {
			fin.ProfitabilityStatus = "profitable"
		} else {
			fin.ProfitabilityStatus = "unprofitable"
		}
	}

	return fin, nil
}

// bestSymbol picks the highest-scoring US-listed match, requiring a score
// above 0.5 so loose name matches do not masquerade as the company.
func bestSymbol(search *alphavantage.SymbolSearchResponse) string {
	best := ""
	bestScore := 0.5
	for _, m := range search.BestMatches {
		score, ok := parseFloat(m.MatchScore)
		if !ok || score <= bestScore {
			continue
		}
		if m.Region != "" && m.Region != "United States" {
			continue
		}
		best = m.Symbol
		bestScore = score
	}
	return best
}

func privateFinancials() model.Financials {
	return model.Financials{
		Status:              "private",
		ProfitabilityStatus: "unknown",
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" || s == "None" || s == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
