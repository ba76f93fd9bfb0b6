package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/config"
	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/pkg/yutori"
)

// ResearchService runs deep research tasks by company name. Used when no
// website is known for the company, so the browsing adapter has nothing to
// browse. Raw results cache for days; an in-flight task marker lets a
// concurrent caller attach to the running task instead of submitting a
// duplicate.
type ResearchService struct {
	tasks yutori.Client
	ex    *Extractor
	cache *cache.Cache
	cfg   config.YutoriConfig
}

// NewResearchService creates the deep-research adapter.
func NewResearchService(tasks yutori.Client, ex *Extractor, c *cache.Cache, cfg config.YutoriConfig) *ResearchService {
	return &ResearchService{tasks: tasks, ex: ex, cache: c, cfg: cfg}
}

// Fetch runs (or attaches to) a deep-research task for the company and
// returns the extracted products/APIs section.
func (s *ResearchService) Fetch(ctx context.Context, companyName string) (model.ProductsAPIs, error) {
	key := cache.ResearchKey(companyName)

	var payload docsPayload
	found, err := s.cache.Get(ctx, key, &payload)
	if err != nil {
		zap.L().Warn("research cache read failed", zap.Error(err))
	}
	if found {
		zap.L().Info("research cache hit", zap.String("company", companyName))
		if repaired, ok := repairPayload(ctx, s.ex, "research", payload); ok {
			payload = repaired
			if err := s.cache.Set(ctx, key, payload, s.cache.ResearchTTL()); err != nil {
				zap.L().Warn("research cache rewrite failed", zap.Error(err))
			}
		}
		return payload.section(), nil
	}

	if s.cfg.Key == "" {
		return model.ProductsAPIs{}, E(KindCredentialMissing, "research", nil)
	}

	taskID, err := s.resolveTask(ctx, companyName)
	if err != nil {
		return model.ProductsAPIs{}, err
	}

	status, pollErr := yutori.PollResearch(ctx, s.tasks, taskID,
		yutori.WithPollInterval(time.Duration(s.cfg.PollIntervalSecs)*time.Second),
		yutori.WithPollAttempts(s.cfg.ResearchAttempts),
	)

	// The poll reached a terminal outcome either way; the marker no longer
	// points at a task worth attaching to.
	if err := s.cache.Delete(ctx, cache.PendingKey(companyName)); err != nil {
		zap.L().Warn("pending marker delete failed", zap.Error(err))
	}
	if pollErr != nil {
		if errors.Is(pollErr, yutori.ErrPollTimeout) {
			return model.ProductsAPIs{}, E(KindPollTimeout, "research", pollErr)
		}
		return model.ProductsAPIs{}, E(KindRequestFailed, "research", pollErr)
	}

	payload = extractDocs(ctx, s.ex, "research", status.Result.Output())
	if err := s.cache.Set(ctx, key, payload, s.cache.ResearchTTL()); err != nil {
		zap.L().Warn("research cache write failed", zap.Error(err))
	}

	return payload.section(), nil
}

// resolveTask returns the in-flight task id for the company, submitting a
// new research task only when no marker exists.
func (s *ResearchService) resolveTask(ctx context.Context, companyName string) (string, error) {
	pendingKey := cache.PendingKey(companyName)

	var taskID string
	found, err := s.cache.Get(ctx, pendingKey, &taskID)
	if err != nil {
		zap.L().Warn("pending marker read failed", zap.Error(err))
	}
	if found && taskID != "" {
		zap.L().Info("attaching to in-flight research task",
			zap.String("company", companyName),
			zap.String("task_id", taskID))
		return taskID, nil
	}

	query := fmt.Sprintf(
		"Comprehensive overview of %s: products offered, public API endpoints and documentation, SDK languages, pricing plans, developer experience",
		companyName)
	created, err := s.tasks.CreateResearchTask(ctx, yutori.ResearchRequest{Query: query})
	if err != nil {
		return "", E(KindRequestFailed, "research", err)
	}

	zap.L().Info("research task created",
		zap.String("company", companyName),
		zap.String("task_id", created.TaskID))

	if err := s.cache.Set(ctx, pendingKey, created.TaskID, s.cache.PendingTTL()); err != nil {
		zap.L().Warn("pending marker write failed", zap.Error(err))
	}

	return created.TaskID, nil
}
