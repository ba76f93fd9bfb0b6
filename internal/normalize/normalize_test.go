package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsItemSynonyms(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  map[string]any
	}{
		{
			name: "headline and link collapse to canonical keys",
			input: map[string]any{
				"headline": "Acme raises Series B",
				"link":     "https://example.com/acme",
			},
			want: map[string]any{
				"title": "Acme raises Series B",
				"url":   "https://example.com/acme",
			},
		},
		{
			name: "publisher and published_at",
			input: map[string]any{
				"publisher":    "TechWire",
				"published_at": "2026-03-01",
			},
			want: map[string]any{
				"source":         "TechWire",
				"published_date": "2026-03-01",
			},
		},
		{
			name: "canonical key wins over synonym",
			input: map[string]any{
				"title":    "Canonical",
				"headline": "Synonym",
			},
			want: map[string]any{"title": "Canonical"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewsItem(tt.input)
			for key, want := range tt.want {
				assert.Equal(t, want, got[key])
			}
		})
	}
}

func TestNewsItemDefaults(t *testing.T) {
	got := NewsItem(map[string]any{})

	assert.Equal(t, "", got["title"])
	assert.Equal(t, "", got["url"])
	assert.Equal(t, "", got["source"])
	assert.Equal(t, "", got["published_date"])
	assert.Equal(t, "", got["summary"])
	assert.Equal(t, DefaultSentiment, got["sentiment"])
	assert.Equal(t, []string{}, got["topics"])
}

func TestNewsItemSentimentCoercion(t *testing.T) {
	got := NewsItem(map[string]any{"sentiment_score": 0.8})
	assert.Equal(t, 0.8, got["sentiment"])

	got = NewsItem(map[string]any{"score": 1})
	assert.Equal(t, 1.0, got["sentiment"])

	got = NewsItem(map[string]any{"sentiment": "positive"})
	assert.Equal(t, DefaultSentiment, got["sentiment"])
}

func TestNewsItemTopicsCoercion(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"list of strings", []any{"ai", "funding"}, []string{"ai", "funding"}},
		{"comma-joined scalar", "ai, funding,ipo", []string{"ai", "funding", "ipo"}},
		{"single scalar", "ai", []string{"ai"}},
		{"empty string", "  ", []string{}},
		{"nil", nil, []string{}},
		{"mixed list drops non-strings", []any{"ai", 7, " ipo "}, []string{"ai", "ipo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewsItem(map[string]any{"tags": tt.input})
			assert.Equal(t, tt.want, got["topics"])
		})
	}
}

func TestNewsItemsPreservesOrder(t *testing.T) {
	got := NewsItems([]map[string]any{
		{"headline": "first"},
		{"headline": "second"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0]["title"])
	assert.Equal(t, "second", got[1]["title"])
}

func TestReviewsDefaults(t *testing.T) {
	got := Reviews(map[string]any{})

	assert.Equal(t, DefaultRating, got["average_rating"])
	assert.Equal(t, 0, got["review_count"])
	assert.Equal(t, []string{}, got["pros"])
	assert.Equal(t, []string{}, got["cons"])
}

func TestReviewsSynonyms(t *testing.T) {
	got := Reviews(map[string]any{
		"rating": 4.2,
		"count":  17.0,
		"pros":   "great docs, responsive support",
	})

	assert.Equal(t, 4.2, got["average_rating"])
	assert.Equal(t, 17, got["review_count"])
	assert.Equal(t, []string{"great docs", "responsive support"}, got["pros"])
}

func TestNormalizeIdempotent(t *testing.T) {
	input := map[string]any{
		"headline":        "Acme raises Series B",
		"link":            "https://example.com/acme",
		"publisher":       "TechWire",
		"published":       "2026-03-01",
		"snippet":         "Acme closed a $40M round.",
		"sentiment_score": 0.8,
		"tags":            "ai, funding",
	}

	once := NewsItem(input)
	twice := NewsItem(once)
	assert.Equal(t, once, twice)

	review := Reviews(map[string]any{"rating": 4.0, "reviews": 9})
	assert.Equal(t, review, Reviews(review))
}
