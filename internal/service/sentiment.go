package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/internal/normalize"
	"github.com/sells-group/companyintel/pkg/tavily"
)

const sentimentSystem = `You analyze news coverage and sentiment for companies. Respond with a single JSON object and nothing else.`

// sentimentExtraction is the raw LLM answer shape for the news stage. The
// news list stays map-shaped until it has been through the normalization
// pass; only normalized articles become typed.
type sentimentExtraction struct {
	OverallSentiment  float64          `json:"overall_sentiment"`
	SentimentLabel    string           `json:"sentiment_label"`
	RecentNews        []map[string]any `json:"recent_news"`
	SentimentTimeline []struct {
		Date      string  `json:"date"`
		Sentiment float64 `json:"sentiment"`
		Event     *string `json:"event"`
	} `json:"sentiment_timeline"`
	Topics          []string       `json:"topics"`
	CustomerReviews map[string]any `json:"customer_reviews"`
}

// SentimentService maps news search results to the news-and-sentiment
// section. It fails open: any failure yields neutral sentiment defaults.
type SentimentService struct {
	search tavily.Client
	ex     *Extractor
	apiKey string
}

// NewSentimentService creates the sentiment provider.
func NewSentimentService(search tavily.Client, ex *Extractor, apiKey string) *SentimentService {
	return &SentimentService{search: search, ex: ex, apiKey: apiKey}
}

// Analyze gathers recent news and scores sentiment for the company.
func (s *SentimentService) Analyze(ctx context.Context, companyName string) (model.NewsSentiment, error) {
	if s.apiKey == "" {
		zap.L().Warn("tavily key not configured, returning neutral sentiment",
			zap.String("company", companyName))
		return neutralSentiment(), nil
	}

	query := fmt.Sprintf("%s recent news announcements developments", companyName)
	resp, err := s.search.Search(ctx, tavily.SearchRequest{Query: query})
	if err != nil {
		zap.L().Warn("news search failed, returning neutral sentiment",
			zap.String("company", companyName),
			zap.Error(err))
		return neutralSentiment(), nil
	}

	var raw sentimentExtraction
	prompt := sentimentPrompt(companyName, resp)
	if err := s.ex.ExtractJSON(ctx, sentimentSystem, prompt, "sentiment", &raw); err != nil {
		zap.L().Warn("sentiment extraction failed, returning neutral sentiment",
			zap.String("company", companyName),
			zap.Error(err))
		return neutralSentiment(), nil
	}

	return mapSentiment(raw), nil
}

// mapSentiment normalizes the map-shaped news list, then builds the typed
// section.
func mapSentiment(raw sentimentExtraction) model.NewsSentiment {
	out := model.NewsSentiment{
		OverallSentiment: raw.OverallSentiment,
		SentimentLabel:   raw.SentimentLabel,
		Topics:           raw.Topics,
	}
	if out.SentimentLabel == "" {
		out.SentimentLabel = labelFor(out.OverallSentiment)
	}

	for _, item := range normalize.NewsItems(raw.RecentNews) {
		out.RecentNews = append(out.RecentNews, model.NewsArticle{
			Title:         item["title"].(string),
			URL:           item["url"].(string),
			Source:        item["source"].(string),
			PublishedDate: item["published_date"].(string),
			Summary:       item["summary"].(string),
			Sentiment:     item["sentiment"].(float64),
			Topics:        item["topics"].([]string),
		})
	}

	for _, p := range raw.SentimentTimeline {
		out.SentimentTimeline = append(out.SentimentTimeline, model.SentimentPoint{
			Date:      p.Date,
			Sentiment: p.Sentiment,
			Event:     p.Event,
		})
	}

	if raw.CustomerReviews != nil {
		reviews := normalize.Reviews(raw.CustomerReviews)
		out.CustomerReviews = &model.ReviewSummary{
			AverageRating: reviews["average_rating"].(float64),
			ReviewCount:   reviews["review_count"].(int),
			Pros:          reviews["pros"].([]string),
			Cons:          reviews["cons"].([]string),
			Sources:       reviews["sources"].([]string),
		}
	}

	return out
}

func labelFor(sentiment float64) string {
	switch {
	case sentiment >= 0.6:
		return "positive"
	case sentiment <= 0.4:
		return "negative"
	}
	return "neutral"
}

func neutralSentiment() model.NewsSentiment {
	return model.NewsSentiment{
		OverallSentiment: normalize.DefaultSentiment,
		SentimentLabel:   "neutral",
	}
}

func sentimentPrompt(companyName string, resp *tavily.SearchResponse) string {
	var sb strings.Builder
	sb.WriteString("Recent news about " + companyName + ":\n\n")
	for _, r := range resp.Results {
		sb.WriteString("- " + r.Title + " (" + r.URL + "): " + r.Content + "\n")
	}
	sb.WriteString(`
Extract a JSON object:
{"overall_sentiment": 0.5, "sentiment_label": "positive|neutral|negative", "recent_news": [{"title": "", "url": "", "source": "", "published_date": "", "sentiment": 0.5, "summary": "", "topics": []}], "sentiment_timeline": [{"date": "", "sentiment": 0.5, "event": null}], "topics": [], "customer_reviews": null}
Sentiment scores range 0 to 1. Include at most 5 news items.`)
	return sb.String()
}
