// Package alphavantage provides a client for the Alpha Vantage query API.
// All operations hit the single /query endpoint with a function parameter.
package alphavantage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Client defines the Alpha Vantage operations used for public-company
// financial lookups.
type Client interface {
	// SymbolSearch resolves a company name to candidate ticker symbols.
	SymbolSearch(ctx context.Context, keywords string) (*SymbolSearchResponse, error)
	// GlobalQuote returns the latest quote for a symbol.
	GlobalQuote(ctx context.Context, symbol string) (*GlobalQuoteResponse, error)
	// CompanyOverview returns fundamentals for a symbol.
	CompanyOverview(ctx context.Context, symbol string) (*CompanyOverview, error)
}

// SymbolSearchResponse is the response from function=SYMBOL_SEARCH.
type SymbolSearchResponse struct {
	BestMatches []SymbolMatch `json:"bestMatches"`
}

// SymbolMatch is a single symbol candidate. Alpha Vantage prefixes field
// names with ordinal numbers.
type SymbolMatch struct {
	Symbol     string `json:"1. symbol"`
	Name       string `json:"2. name"`
	Type       string `json:"3. type"`
	Region     string `json:"4. region"`
	Currency   string `json:"8. currency"`
	MatchScore string `json:"9. matchScore"`
}

// GlobalQuoteResponse is the response from function=GLOBAL_QUOTE.
type GlobalQuoteResponse struct {
	Quote GlobalQuote `json:"Global Quote"`
}

// GlobalQuote holds the latest trade data for a symbol.
type GlobalQuote struct {
	Symbol        string `json:"01. symbol"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	ChangePercent string `json:"10. change percent"`
}

// CompanyOverview is the response from function=OVERVIEW.
type CompanyOverview struct {
	Symbol                    string `json:"Symbol"`
	Name                      string `json:"Name"`
	Description               string `json:"Description"`
	Exchange                  string `json:"Exchange"`
	Currency                  string `json:"Currency"`
	Sector                    string `json:"Sector"`
	Industry                  string `json:"Industry"`
	MarketCapitalization      string `json:"MarketCapitalization"`
	RevenueTTM                string `json:"RevenueTTM"`
	ProfitMargin              string `json:"ProfitMargin"`
	QuarterlyRevenueGrowthYOY string `json:"QuarterlyRevenueGrowthYOY"`
}

// ErrThrottled is returned when Alpha Vantage answers with its rate-limit
// note instead of data (the API reports throttling with HTTP 200).
var ErrThrottled = eris.New("alphavantage: request throttled")

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Alpha Vantage client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SymbolSearch(ctx context.Context, keywords string) (*SymbolSearchResponse, error) {
	var resp SymbolSearchResponse
	params := url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {keywords}}
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, eris.Wrap(err, "alphavantage: symbol search")
	}
	return &resp, nil
}

func (c *httpClient) GlobalQuote(ctx context.Context, symbol string) (*GlobalQuoteResponse, error) {
	var resp GlobalQuoteResponse
	params := url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, eris.Wrap(err, "alphavantage: global quote")
	}
	return &resp, nil
}

func (c *httpClient) CompanyOverview(ctx context.Context, symbol string) (*CompanyOverview, error) {
	var resp CompanyOverview
	params := url.Values{"function": {"OVERVIEW"}, "symbol": {symbol}}
	if err := c.query(ctx, params, &resp); err != nil {
		return nil, eris.Wrap(err, "alphavantage: company overview")
	}
	return &resp, nil
}

func (c *httpClient) query(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	// Throttling and invalid calls come back as 200 with an envelope.
	var envelope struct {
		Note         string `json:"Note"`
		Information  string `json:"Information"`
		ErrorMessage string `json:"Error Message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Note != "" || envelope.Information != "" {
			return ErrThrottled
		}
		if envelope.ErrorMessage != "" {
			return eris.Errorf("api error: %s", envelope.ErrorMessage)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
