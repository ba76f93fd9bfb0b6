package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/pkg/tavily"
)

const overviewSystem = `You extract structured company data from web search results. Respond with a single JSON object and nothing else.`

// overviewExtraction is the raw LLM answer shape for the overview stage.
// Optional fields are pointers so absence is distinguishable from zero.
type overviewExtraction struct {
	Description   string   `json:"description"`
	FoundedYear   *int     `json:"founded_year"`
	Headquarters  string   `json:"headquarters"`
	EmployeeCount string   `json:"employee_count"`
	Website       string   `json:"website"`
	Industry      []string `json:"industry"`
	Mission       string   `json:"mission"`
	Status        string   `json:"status"`
}

// OverviewService produces the fast company overview from a web search plus
// LLM extraction. It never returns an error: any failure falls back to a
// minimal placeholder so the fast path always has an overview to build on.
type OverviewService struct {
	search tavily.Client
	ex     *Extractor
	apiKey string
}

// NewOverviewService creates the overview provider.
func NewOverviewService(search tavily.Client, ex *Extractor, apiKey string) *OverviewService {
	return &OverviewService{search: search, ex: ex, apiKey: apiKey}
}

// Fetch researches the company and returns its overview section.
func (s *OverviewService) Fetch(ctx context.Context, companyName string) model.CompanyOverview {
	if s.apiKey == "" {
		zap.L().Warn("tavily key not configured, using placeholder overview",
			zap.String("company", companyName))
		return placeholderOverview(companyName)
	}

	query := fmt.Sprintf("%s company overview: description, founding year, headquarters, employee count, mission, industry, website, public or private", companyName)
	resp, err := s.search.Search(ctx, tavily.SearchRequest{
		Query:         query,
		IncludeAnswer: true,
	})
	if err != nil {
		zap.L().Warn("overview search failed, using placeholder",
			zap.String("company", companyName),
			zap.Error(err))
		return placeholderOverview(companyName)
	}

	var raw overviewExtraction
	prompt := overviewPrompt(companyName, resp)
	if err := s.ex.ExtractJSON(ctx, overviewSystem, prompt, "overview", &raw); err != nil {
		zap.L().Warn("overview extraction failed, using placeholder",
			zap.String("company", companyName),
			zap.Error(err))
		return placeholderOverview(companyName)
	}

	return mergeOverview(companyName, raw)
}

func overviewPrompt(companyName string, resp *tavily.SearchResponse) string {
	var sb strings.Builder
	sb.WriteString("Search results about " + companyName + ":\n\n")
	if resp.Answer != "" {
		sb.WriteString("Summary: " + resp.Answer + "\n\n")
	}
	for _, r := range resp.Results {
		sb.WriteString("- " + r.Title + " (" + r.URL + "): " + r.Content + "\n")
	}
	sb.WriteString(`
Extract a JSON object with these fields:
{"description": "", "founded_year": null, "headquarters": "", "employee_count": "", "website": "", "industry": [], "mission": "", "status": "public or private"}
Use null or empty values for anything the results do not state.`)
	return sb.String()
}

// mergeOverview fills extraction gaps with placeholder values so the
// overview is always fully populated.
func mergeOverview(companyName string, raw overviewExtraction) model.CompanyOverview {
	out := placeholderOverview(companyName)
	if raw.Description != "" {
		out.Description = raw.Description
	}
	if raw.FoundedYear != nil {
		out.FoundedYear = raw.FoundedYear
	}
	if raw.Headquarters != "" {
		out.Headquarters = raw.Headquarters
	}
	if raw.EmployeeCount != "" {
		out.EmployeeCount = raw.EmployeeCount
	}
	if raw.Website != "" {
		out.Website = raw.Website
	}
	if len(raw.Industry) > 0 {
		out.Industry = raw.Industry
	}
	if raw.Mission != "" {
		out.Mission = raw.Mission
	}
	if raw.Status == "public" || raw.Status == "private" {
		out.Status = raw.Status
	}
	return out
}

func placeholderOverview(companyName string) model.CompanyOverview {
	slug := model.Slugify(companyName)
	return model.CompanyOverview{
		Name:          companyName,
		Slug:          slug,
		Description:   fmt.Sprintf("Research data for %s", companyName),
		Headquarters:  "Unknown",
		EmployeeCount: "Unknown",
		Website:       fmt.Sprintf("https://%s.com", slug),
		LogoURL:       fmt.Sprintf("https://logo.clearbit.com/%s.com", slug),
		Industry:      []string{"Technology"},
		Mission:       fmt.Sprintf("Mission information for %s", companyName),
		Status:        "private",
	}
}
