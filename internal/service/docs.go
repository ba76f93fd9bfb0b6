package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/model"
)

const docsSystem = `You extract product and API documentation data from unstructured text. Respond with a single JSON object and nothing else.`

// docsPayload is the cached raw result of a long-running task: the
// structured extraction plus the source text it came from. Older cache
// entries may carry only raw_content; the stale-repair pass re-extracts
// those on read.
type docsPayload struct {
	Products             []model.Product     `json:"products"`
	APIs                 []model.APIEndpoint `json:"apis"`
	DocumentationQuality float64             `json:"documentation_quality"`
	SDKLanguages         []string            `json:"sdk_languages"`
	Pricing              []model.PricingTier `json:"pricing"`
	RawContent           string              `json:"raw_content,omitempty"`
}

// structured reports whether the payload carries any extracted fields.
func (p docsPayload) structured() bool {
	return len(p.Products) > 0 || len(p.APIs) > 0 || len(p.SDKLanguages) > 0 ||
		len(p.Pricing) > 0 || p.DocumentationQuality > 0
}

// section converts the payload to the profile section.
func (p docsPayload) section() model.ProductsAPIs {
	return model.ProductsAPIs{
		Products:             p.Products,
		APIs:                 p.APIs,
		DocumentationQuality: p.DocumentationQuality,
		SDKLanguages:         p.SDKLanguages,
		Pricing:              p.Pricing,
	}
}

// docsExtraction is the raw LLM answer shape shared by the research and
// browsing adapters.
type docsExtraction struct {
	Products []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	} `json:"products"`
	APIs []struct {
		Path         string `json:"path"`
		Method       string `json:"method"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		AuthRequired bool   `json:"authentication_required"`
	} `json:"apis"`
	DocumentationQuality float64  `json:"documentation_quality"`
	SDKLanguages         []string `json:"sdk_languages"`
	Pricing              []struct {
		Name           string   `json:"name"`
		Price          string   `json:"price"`
		Features       []string `json:"features"`
		TargetAudience string   `json:"target_audience"`
	} `json:"pricing"`
}

func (e docsExtraction) payload(rawContent string) docsPayload {
	p := docsPayload{
		DocumentationQuality: e.DocumentationQuality,
		SDKLanguages:         e.SDKLanguages,
		RawContent:           rawContent,
	}
	for _, pr := range e.Products {
		p.Products = append(p.Products, model.Product{
			Name:        pr.Name,
			Description: pr.Description,
			Category:    pr.Category,
		})
	}
	for _, a := range e.APIs {
		p.APIs = append(p.APIs, model.APIEndpoint{
			Path:                   a.Path,
			Method:                 a.Method,
			Description:            a.Description,
			Category:               a.Category,
			AuthenticationRequired: a.AuthRequired,
		})
	}
	for _, t := range e.Pricing {
		p.Pricing = append(p.Pricing, model.PricingTier{
			Name:           t.Name,
			Price:          t.Price,
			Features:       t.Features,
			TargetAudience: t.TargetAudience,
		})
	}
	return p
}

const docsPrompt = `Text gathered from the company's documentation or research:

%s

Extract a JSON object:
{"products": [{"name": "", "description": "", "category": ""}], "apis": [{"path": "", "method": "", "description": "", "category": "", "authentication_required": false}], "documentation_quality": 0.0, "sdk_languages": [], "pricing": [{"name": "", "price": "", "features": [], "target_audience": ""}]}
documentation_quality ranges 0 to 5. Leave lists empty when the text says nothing.`

// extractDocs runs the shared products/APIs extraction over task output.
// Extraction failure degrades to a payload holding only the raw text, which
// a later read can repair.
func extractDocs(ctx context.Context, ex *Extractor, phase, rawContent string) docsPayload {
	var raw docsExtraction
	if err := ex.ExtractJSON(ctx, docsSystem, sprintfDocs(rawContent), phase, &raw); err != nil {
		zap.L().Warn("docs extraction failed, caching raw content only",
			zap.String("phase", phase),
			zap.Error(err))
		return docsPayload{RawContent: rawContent}
	}
	return raw.payload(rawContent)
}

// repairPayload re-extracts a cached payload that carries only raw text.
// Returns the repaired payload and whether a repair happened.
func repairPayload(ctx context.Context, ex *Extractor, phase string, p docsPayload) (docsPayload, bool) {
	if p.structured() || p.RawContent == "" {
		return p, false
	}
	repaired := extractDocs(ctx, ex, phase, p.RawContent)
	if !repaired.structured() {
		return p, false
	}
	zap.L().Info("repaired stale cached result", zap.String("phase", phase))
	return repaired, true
}

func sprintfDocs(rawContent string) string {
	// Cap the prompt body; task outputs can be very long.
	const maxLen = 20000
	if len(rawContent) > maxLen {
		rawContent = rawContent[:maxLen]
	}
	return fmt.Sprintf(docsPrompt, rawContent)
}
