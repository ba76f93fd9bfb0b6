package model

import "strings"

// EnrichmentStatus tracks whether the background enrichment for a profile
// has run yet.
type EnrichmentStatus string

const (
	EnrichmentPending   EnrichmentStatus = "pending"
	EnrichmentCompleted EnrichmentStatus = "completed"
)

// CompanyProfile is the aggregate analysis result for one company. It is
// cached under three key aliases (id, slug, session) and mutated in place by
// the background enrichment.
type CompanyProfile struct {
	ID               string           `json:"id"`
	CompanyName      string           `json:"company_name"`
	Slug             string           `json:"slug"`
	AnalyzedAt       string           `json:"analyzed_at"`
	Status           string           `json:"status"`
	EnrichmentStatus EnrichmentStatus `json:"enrichment_status"`
	Data             CompanyData      `json:"data"`
	Metadata         CompanyMetadata  `json:"metadata"`
}

// CompanyData holds the six profile sections. All sections are value types:
// a profile always carries every section, possibly zero-valued.
type CompanyData struct {
	Overview           CompanyOverview    `json:"overview"`
	ProductsAPIs       ProductsAPIs       `json:"products_apis"`
	MarketIntelligence MarketIntelligence `json:"market_intelligence"`
	Financials         Financials         `json:"financials"`
	TeamCulture        TeamCulture        `json:"team_culture"`
	NewsSentiment      NewsSentiment      `json:"news_sentiment"`
}

// CompanyMetadata carries provenance hints for the profile.
type CompanyMetadata struct {
	SourcesCount    int     `json:"sources_count"`
	ConfidenceScore float64 `json:"confidence_score"`
	LastUpdated     string  `json:"last_updated"`
}

// CompanyOverview describes the company itself.
type CompanyOverview struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	FoundedYear   *int     `json:"founded_year,omitempty"`
	Headquarters  string   `json:"headquarters"`
	EmployeeCount string   `json:"employee_count"`
	Website       string   `json:"website"`
	LogoURL       string   `json:"logo_url"`
	Industry      []string `json:"industry"`
	Mission       string   `json:"mission"`
	Status        string   `json:"status"`
}

// Product is a single product offering.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	LaunchDate  string `json:"launch_date,omitempty"`
}

// APIEndpoint is one documented API surface.
type APIEndpoint struct {
	Path                   string `json:"path"`
	Method                 string `json:"method"`
	Description            string `json:"description"`
	Category               string `json:"category"`
	AuthenticationRequired bool   `json:"authentication_required"`
}

// PricingTier is one published pricing plan.
type PricingTier struct {
	Name           string   `json:"name"`
	Price          string   `json:"price"`
	Features       []string `json:"features"`
	TargetAudience string   `json:"target_audience"`
}

// ProductsAPIs is the slow-to-obtain section filled by enrichment. The fast
// path leaves it zero-valued.
type ProductsAPIs struct {
	Products             []Product     `json:"products"`
	APIs                 []APIEndpoint `json:"apis"`
	DocumentationQuality float64       `json:"documentation_quality"`
	SDKLanguages         []string      `json:"sdk_languages"`
	Pricing              []PricingTier `json:"pricing"`
}

// IsZero reports whether the section has never been populated.
func (p ProductsAPIs) IsZero() bool {
	return len(p.Products) == 0 && len(p.APIs) == 0 && len(p.SDKLanguages) == 0 &&
		len(p.Pricing) == 0 && p.DocumentationQuality == 0
}

// Competitor describes one competing company.
type Competitor struct {
	Name                 string   `json:"name"`
	Slug                 string   `json:"slug"`
	Relationship         string   `json:"relationship"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	MarketOverlapPercent float64  `json:"market_overlap_percent"`
}

// MarketIntelligence summarizes the competitive landscape.
type MarketIntelligence struct {
	Competitors        []Competitor `json:"competitors"`
	MarketPosition     string       `json:"market_position"`
	MarketSharePercent *float64     `json:"market_share_percent,omitempty"`
	Niche              string       `json:"niche"`
	Differentiation    []string     `json:"differentiation"`
	TargetMarket       []string     `json:"target_market"`
}

// FundingRound is a single financing event.
type FundingRound struct {
	Round     string   `json:"round"`
	Amount    float64  `json:"amount"`
	Date      string   `json:"date"`
	Investors []string `json:"investors"`
	Valuation float64  `json:"valuation"`
}

// Financials holds public-market or private funding data. Most fields are
// unavailable for private companies and stay nil.
type Financials struct {
	Status              string        `json:"status"`
	StockSymbol         *string       `json:"stock_symbol,omitempty"`
	StockPrice          *float64      `json:"stock_price,omitempty"`
	MarketCap           *float64      `json:"market_cap,omitempty"`
	LastFundingRound    *FundingRound `json:"last_funding_round,omitempty"`
	TotalFunding        *float64      `json:"total_funding,omitempty"`
	Valuation           *float64      `json:"valuation,omitempty"`
	RevenueEstimate     *float64      `json:"revenue_estimate,omitempty"`
	RevenueGrowthYoY    *float64      `json:"revenue_growth_yoy,omitempty"`
	ProfitabilityStatus string        `json:"profitability_status"`
	BurnRate            *string       `json:"burn_rate,omitempty"`
}

// Leader is one member of the leadership team.
type Leader struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Background  string  `json:"background"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// TeamCulture describes the team, hiring posture, and engineering culture.
type TeamCulture struct {
	Leadership         []Leader `json:"leadership"`
	TechStack          []string `json:"tech_stack"`
	CultureSignals     []string `json:"culture_signals"`
	WorkModel          string   `json:"work_model"`
	OpenPositionsCount int      `json:"open_positions_count"`
	HiringFocus        []string `json:"hiring_focus"`
}

// NewsArticle is one news item with its sentiment score.
type NewsArticle struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Source        string   `json:"source"`
	PublishedDate string   `json:"published_date"`
	Sentiment     float64  `json:"sentiment"`
	Summary       string   `json:"summary"`
	Topics        []string `json:"topics"`
}

// SentimentPoint is one point on the sentiment timeline.
type SentimentPoint struct {
	Date      string  `json:"date"`
	Sentiment float64 `json:"sentiment"`
	Event     *string `json:"event,omitempty"`
}

// ReviewSummary aggregates customer review signals.
type ReviewSummary struct {
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	Sources       []string `json:"sources"`
}

// NewsSentiment is the news and sentiment section.
type NewsSentiment struct {
	OverallSentiment  float64          `json:"overall_sentiment"`
	SentimentLabel    string           `json:"sentiment_label"`
	RecentNews        []NewsArticle    `json:"recent_news"`
	SentimentTimeline []SentimentPoint `json:"sentiment_timeline"`
	Topics            []string         `json:"topics"`
	CustomerReviews   *ReviewSummary   `json:"customer_reviews,omitempty"`
}

// AnalyzeOptions are per-request stage toggles. Disabled stages are skipped
// and their section stays zero-valued.
type AnalyzeOptions struct {
	IncludeAPIs        bool `json:"include_apis"`
	IncludeFinancials  bool `json:"include_financials"`
	IncludeCompetitors bool `json:"include_competitors"`
	IncludeTeam        bool `json:"include_team"`
	IncludeNews        bool `json:"include_news"`
	IncludeGraph       bool `json:"include_graph"`
}

// DefaultAnalyzeOptions enables every stage.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		IncludeAPIs:        true,
		IncludeFinancials:  true,
		IncludeCompetitors: true,
		IncludeTeam:        true,
		IncludeNews:        true,
		IncludeGraph:       true,
	}
}

// Slugify converts a company name into its URL-safe slug. Matches the cache
// key scheme: lowercase, spaces to hyphens.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
