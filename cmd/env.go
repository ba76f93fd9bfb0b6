package main

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/graph"
	"github.com/sells-group/companyintel/internal/orchestrator"
	"github.com/sells-group/companyintel/internal/progress"
	"github.com/sells-group/companyintel/internal/service"
	"github.com/sells-group/companyintel/pkg/alphavantage"
	"github.com/sells-group/companyintel/pkg/anthropic"
	"github.com/sells-group/companyintel/pkg/tavily"
	"github.com/sells-group/companyintel/pkg/yutori"
)

// appEnv wires the full pipeline from config: clients, adapters, cache,
// graph store, and the orchestrator.
type appEnv struct {
	cache    *cache.Cache
	graph    graph.Store
	orch     *orchestrator.Orchestrator
	reporter *progress.Reporter
}

func newEnv(spawn orchestrator.Spawner) (*appEnv, error) {
	c := cache.New(cfg.Redis, cfg.Cache)

	store, err := graph.New(cfg.Neo4j)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	llm := anthropic.NewClient(cfg.Anthropic.Key)
	extractor := service.NewExtractor(llm, cfg.Anthropic.HaikuModel)

	var searchOpts []tavily.Option
	if cfg.Tavily.BaseURL != "" {
		searchOpts = append(searchOpts, tavily.WithBaseURL(cfg.Tavily.BaseURL))
	}
	if cfg.Tavily.RatePerSec > 0 {
		searchOpts = append(searchOpts, tavily.WithRateLimit(rate.Limit(cfg.Tavily.RatePerSec), 2))
	}
	search := tavily.NewClient(cfg.Tavily.Key, searchOpts...)

	var taskOpts []yutori.Option
	if cfg.Yutori.BaseURL != "" {
		taskOpts = append(taskOpts, yutori.WithBaseURL(cfg.Yutori.BaseURL))
	}
	tasks := yutori.NewClient(cfg.Yutori.Key, taskOpts...)

	var avOpts []alphavantage.Option
	if cfg.AlphaVantage.BaseURL != "" {
		avOpts = append(avOpts, alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL))
	}
	av := alphavantage.NewClient(cfg.AlphaVantage.Key, avOpts...)

	reporter := progress.NewReporter(c)

	orch := orchestrator.New(orchestrator.Deps{
		Overview:    service.NewOverviewService(search, extractor, cfg.Tavily.Key),
		Competitors: service.NewCompetitorService(search, extractor, c, cfg.Tavily.Key),
		Financials:  service.NewFinancialService(av, cfg.AlphaVantage.Key),
		Team:        service.NewTeamService(),
		Sentiment:   service.NewSentimentService(search, extractor, cfg.Tavily.Key),
		Research:    service.NewResearchService(tasks, extractor, c, cfg.Yutori),
		Browsing:    service.NewBrowsingService(tasks, extractor, c, cfg.Yutori),
		Graph:       store,
		Cache:       c,
		Progress:    reporter,
		Spawn:       spawn,
	})

	return &appEnv{
		cache:    c,
		graph:    store,
		orch:     orch,
		reporter: reporter,
	}, nil
}

func (e *appEnv) Close(ctx context.Context) {
	_ = e.cache.Close()
	_ = e.graph.Close(ctx)
}

// credentials reports which external services have API keys configured.
func (e *appEnv) credentials() map[string]bool {
	return map[string]bool{
		"yutori":       cfg.Yutori.Key != "",
		"tavily":       cfg.Tavily.Key != "",
		"alphavantage": cfg.AlphaVantage.Key != "",
		"anthropic":    cfg.Anthropic.Key != "",
	}
}
