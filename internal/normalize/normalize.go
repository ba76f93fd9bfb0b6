// Package normalize reconciles schema drift in LLM-produced JSON before it
// is mapped onto profile sections: synonym keys collapse to canonical names,
// missing or null optionals coerce to documented defaults, and
// scalar-or-list ambiguity resolves to the list form. The pass is pure and
// idempotent; normalizing an already-normalized record is a no-op.
package normalize

import "strings"

// Neutral defaults for optional numeric fields.
const (
	DefaultSentiment = 0.5
	DefaultRating    = 3.5
)

// newsSynonyms maps accepted synonym keys to the canonical news-item field.
var newsSynonyms = map[string]string{
	"headline":        "title",
	"name":            "title",
	"link":            "url",
	"article_url":     "url",
	"publisher":       "source",
	"site":            "source",
	"outlet":          "source",
	"date":            "published_date",
	"published":       "published_date",
	"published_at":    "published_date",
	"pub_date":        "published_date",
	"description":     "summary",
	"snippet":         "summary",
	"sentiment_score": "sentiment",
	"score":           "sentiment",
	"tags":            "topics",
	"categories":      "topics",
	"keywords":        "topics",
}

// newsStringFields lists canonical string fields coerced to "" when
// missing or null.
var newsStringFields = []string{"title", "url", "source", "published_date", "summary"}

// NewsItems normalizes a heterogeneous list of news records in place-safe
// copies. Each record gets canonical field names, defaulted optionals, and
// list-shaped topics.
func NewsItems(items []map[string]any) []map[string]any {
	if items == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, NewsItem(item))
	}
	return out
}

// NewsItem normalizes a single news record.
func NewsItem(item map[string]any) map[string]any {
	normalized := make(map[string]any, len(item))

	// Canonical keys win over synonyms when both are present.
	for key, value := range item {
		canonical, isSynonym := newsSynonyms[key]
		if !isSynonym {
			normalized[key] = value
			continue
		}
		if _, exists := item[canonical]; !exists {
			normalized[canonical] = value
		}
	}

	for _, field := range newsStringFields {
		normalized[field] = stringOr(normalized[field], "")
	}
	normalized["sentiment"] = floatOr(normalized["sentiment"], DefaultSentiment)
	normalized["topics"] = stringList(normalized["topics"])

	return normalized
}

// Reviews normalizes a customer-review summary block.
func Reviews(block map[string]any) map[string]any {
	if block == nil {
		return nil
	}
	normalized := make(map[string]any, len(block))
	for key, value := range block {
		switch key {
		case "rating", "avg_rating":
			if _, exists := block["average_rating"]; !exists {
				normalized["average_rating"] = value
			}
		case "reviews", "count":
			if _, exists := block["review_count"]; !exists {
				normalized["review_count"] = value
			}
		default:
			normalized[key] = value
		}
	}

	normalized["average_rating"] = floatOr(normalized["average_rating"], DefaultRating)
	normalized["review_count"] = intOr(normalized["review_count"], 0)
	for _, field := range []string{"pros", "cons", "sources"} {
		normalized[field] = stringList(normalized[field])
	}
	return normalized
}

// stringOr coerces a value to string, or returns fallback for nil and
// non-string values.
func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

// floatOr coerces numeric JSON shapes to float64, or returns fallback.
func floatOr(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return fallback
}

// intOr coerces numeric JSON shapes to int, or returns fallback.
func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

// stringList coerces a scalar-or-list value into a clean []string. Strings
// split on commas; nil and unrecognized shapes become an empty list.
func stringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return []string{}
}
