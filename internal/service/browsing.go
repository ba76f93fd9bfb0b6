package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/config"
	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/pkg/yutori"
)

// docPaths are tried in order against the company website until a browsing
// task succeeds. The empty path falls back to the site root.
var docPaths = []string{"/docs", "/api", "/developers", "/documentation", ""}

const browsingTask = "Extract all API documentation from this page including: available APIs and endpoints, SDK languages supported, pricing plans, and product features. Return a structured summary of the technical documentation."

// BrowsingService drives a browsing agent through a company's documentation
// pages and extracts the products/APIs section. This is the primary source
// for enrichment when the company's website is known.
type BrowsingService struct {
	tasks yutori.Client
	ex    *Extractor
	cache *cache.Cache
	cfg   config.YutoriConfig
}

// NewBrowsingService creates the deep-browsing adapter.
func NewBrowsingService(tasks yutori.Client, ex *Extractor, c *cache.Cache, cfg config.YutoriConfig) *BrowsingService {
	return &BrowsingService{tasks: tasks, ex: ex, cache: c, cfg: cfg}
}

// ExtractAPIDocs browses likely documentation paths under website and
// returns the extracted products/APIs section.
func (s *BrowsingService) ExtractAPIDocs(ctx context.Context, website string) (model.ProductsAPIs, error) {
	key := cache.BrowsingKey(website)

	var payload docsPayload
	found, err := s.cache.Get(ctx, key, &payload)
	if err != nil {
		zap.L().Warn("browsing cache read failed", zap.Error(err))
	}
	if found {
		zap.L().Info("browsing cache hit", zap.String("website", website))
		if repaired, ok := repairPayload(ctx, s.ex, "browsing", payload); ok {
			payload = repaired
			if err := s.cache.Set(ctx, key, payload, s.cache.BrowsingTTL()); err != nil {
				zap.L().Warn("browsing cache rewrite failed", zap.Error(err))
			}
		}
		return payload.section(), nil
	}

	if s.cfg.Key == "" {
		return model.ProductsAPIs{}, E(KindCredentialMissing, "browsing", nil)
	}

	var lastErr error
	for _, path := range docPaths {
		url := strings.TrimSuffix(website, "/") + path

		output, err := s.browsePage(ctx, url)
		if err != nil {
			zap.L().Warn("browsing attempt failed",
				zap.String("url", url),
				zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		payload = extractDocs(ctx, s.ex, "browsing", output)
		if err := s.cache.Set(ctx, key, payload, s.cache.BrowsingTTL()); err != nil {
			zap.L().Warn("browsing cache write failed", zap.Error(err))
		}
		return payload.section(), nil
	}

	if errors.Is(lastErr, yutori.ErrPollTimeout) {
		return model.ProductsAPIs{}, E(KindPollTimeout, "browsing", lastErr)
	}
	return model.ProductsAPIs{}, E(KindRequestFailed, "browsing", lastErr)
}

// browsePage submits one browsing task and polls it to completion.
func (s *BrowsingService) browsePage(ctx context.Context, url string) (string, error) {
	created, err := s.tasks.CreateBrowsingTask(ctx, yutori.BrowsingRequest{
		Task:     browsingTask,
		StartURL: url,
	})
	if err != nil {
		return "", err
	}

	zap.L().Info("browsing task created",
		zap.String("url", url),
		zap.String("task_id", created.TaskID))

	status, err := yutori.PollBrowsing(ctx, s.tasks, created.TaskID,
		yutori.WithPollInterval(time.Duration(s.cfg.PollIntervalSecs)*time.Second),
		yutori.WithPollAttempts(s.cfg.BrowsingAttempts),
	)
	if err != nil {
		return "", err
	}

	return status.Result.Output(), nil
}
