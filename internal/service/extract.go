package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/pkg/anthropic"
)

const extractMaxTokens = 4096

// Extractor turns unstructured source text into typed section payloads via
// Claude. Every extraction site unmarshals into its own struct with explicit
// optional fields; raw maps never cross the extractor boundary.
type Extractor struct {
	llm   anthropic.Client
	model string
}

// NewExtractor creates an Extractor using the given model.
func NewExtractor(llm anthropic.Client, model string) *Extractor {
	return &Extractor{llm: llm, model: model}
}

// ExtractJSON prompts the model and unmarshals its JSON answer into out.
// A parse failure returns KindExtractionFailed; callers substitute their
// documented default structure and log, never propagate.
func (e *Extractor) ExtractJSON(ctx context.Context, system, prompt, phase string, out any) error {
	resp, err := e.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: extractMaxTokens,
		System:    anthropic.BuildCachedSystemBlocks(system),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return E(KindRequestFailed, "extract "+phase, err)
	}
	resp.Usage.LogCost(e.model, phase)

	cleaned := cleanJSON(resp.Text())
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		zap.L().Debug("failed to parse extraction JSON",
			zap.String("phase", phase),
			zap.Error(err))
		return E(KindExtractionFailed, "extract "+phase, err)
	}

	return nil
}

// cleanJSON strips markdown fences and extracts the JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
