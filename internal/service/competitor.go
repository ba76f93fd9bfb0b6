package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/pkg/tavily"
)

const competitorSystem = `You analyze competitive landscapes from web search results. Respond with a single JSON object and nothing else.`

// competitorExtraction is the raw LLM answer shape for the competitor stage.
type competitorExtraction struct {
	Competitors []struct {
		Name                 string   `json:"name"`
		Relationship         string   `json:"relationship"`
		Strengths            []string `json:"strengths"`
		Weaknesses           []string `json:"weaknesses"`
		MarketOverlapPercent float64  `json:"market_overlap_percent"`
	} `json:"competitors"`
	MarketPosition  string   `json:"market_position"`
	Niche           string   `json:"niche"`
	Differentiation []string `json:"differentiation"`
	TargetMarket    []string `json:"target_market"`
}

// CompetitorService maps Tavily search results to the market-intelligence
// section. Results are cached by company fingerprint; the search itself is
// the expensive part.
type CompetitorService struct {
	search tavily.Client
	ex     *Extractor
	cache  *cache.Cache
	apiKey string
}

// NewCompetitorService creates the competitor provider.
func NewCompetitorService(search tavily.Client, ex *Extractor, c *cache.Cache, apiKey string) *CompetitorService {
	return &CompetitorService{search: search, ex: ex, cache: c, apiKey: apiKey}
}

// Find identifies competitors for the company.
func (s *CompetitorService) Find(ctx context.Context, companyName string) (model.MarketIntelligence, error) {
	key := cache.SearchKey(companyName)

	var cached model.MarketIntelligence
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		zap.L().Warn("competitor cache read failed", zap.Error(err))
	}
	if found {
		zap.L().Info("competitor cache hit", zap.String("company", companyName))
		return cached, nil
	}

	if s.apiKey == "" {
		return model.MarketIntelligence{}, E(KindCredentialMissing, "competitors", nil)
	}

	query := fmt.Sprintf("%s competitors alternatives comparison market analysis", companyName)
	resp, err := s.search.Search(ctx, tavily.SearchRequest{
		Query:         query,
		IncludeAnswer: true,
	})
	if err != nil {
		return model.MarketIntelligence{}, E(KindRequestFailed, "competitors", err)
	}

	intel := s.extractCompetitors(ctx, companyName, resp)

	if err := s.cache.Set(ctx, key, intel, s.cache.SearchTTL()); err != nil {
		zap.L().Warn("competitor cache write failed", zap.Error(err))
	}

	return intel, nil
}

// extractCompetitors maps search results through the LLM. Extraction
// failures degrade to an intel section holding only the niche guess.
func (s *CompetitorService) extractCompetitors(ctx context.Context, companyName string, resp *tavily.SearchResponse) model.MarketIntelligence {
	var raw competitorExtraction
	prompt := competitorPrompt(companyName, resp)
	if err := s.ex.ExtractJSON(ctx, competitorSystem, prompt, "competitors", &raw); err != nil {
		zap.L().Warn("competitor extraction failed, returning empty intel",
			zap.String("company", companyName),
			zap.Error(err))
		return model.MarketIntelligence{MarketPosition: "unknown"}
	}

	intel := model.MarketIntelligence{
		MarketPosition:  raw.MarketPosition,
		Niche:           raw.Niche,
		Differentiation: raw.Differentiation,
		TargetMarket:    raw.TargetMarket,
	}
	for _, c := range raw.Competitors {
		if c.Name == "" {
			continue
		}
		intel.Competitors = append(intel.Competitors, model.Competitor{
			Name:                 c.Name,
			Slug:                 model.Slugify(c.Name),
			Relationship:         c.Relationship,
			Strengths:            c.Strengths,
			Weaknesses:           c.Weaknesses,
			MarketOverlapPercent: c.MarketOverlapPercent,
		})
	}
	return intel
}

func competitorPrompt(companyName string, resp *tavily.SearchResponse) string {
	var sb strings.Builder
	sb.WriteString("Search results about competitors of " + companyName + ":\n\n")
	if resp.Answer != "" {
		sb.WriteString("Summary: " + resp.Answer + "\n\n")
	}
	for _, r := range resp.Results {
		sb.WriteString("- " + r.Title + ": " + r.Content + "\n")
	}
	sb.WriteString(`
Extract a JSON object:
{"competitors": [{"name": "", "relationship": "direct or indirect", "strengths": [], "weaknesses": [], "market_overlap_percent": 0}], "market_position": "", "niche": "", "differentiation": [], "target_market": []}
List at most 5 competitors. Leave lists empty when the results say nothing.`)
	return sb.String()
}
