// Package orchestrator runs the analysis pipeline: a fast synchronous pass
// that assembles a profile from the quick adapters, then a background
// enrichment that fills the slow documentation section and the knowledge
// graph. The enrichment never overwrites fast-path sections; it only adds
// the products/APIs section and refreshed metadata.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/model"
)

// Fast-path provenance versus post-enrichment provenance.
const (
	fastSourcesCount     = 12
	fastConfidence       = 0.72
	enrichedSourcesCount = 45
	enrichedConfidence   = 0.92
)

// OverviewFetcher resolves the company overview. It never fails: missing
// credentials or search errors produce a placeholder overview.
type OverviewFetcher interface {
	Fetch(ctx context.Context, companyName string) model.CompanyOverview
}

type CompetitorFinder interface {
	Find(ctx context.Context, companyName string) (model.MarketIntelligence, error)
}

type FinancialFetcher interface {
	Fetch(ctx context.Context, companyName string) (model.Financials, error)
}

type TeamFetcher interface {
	Fetch(ctx context.Context, companyName string) (model.TeamCulture, error)
}

type SentimentAnalyzer interface {
	Analyze(ctx context.Context, companyName string) (model.NewsSentiment, error)
}

// DocsResearcher extracts the products/APIs section via deep research on
// the company name.
type DocsResearcher interface {
	Fetch(ctx context.Context, companyName string) (model.ProductsAPIs, error)
}

// DocsBrowser extracts the products/APIs section by browsing the company's
// documentation pages.
type DocsBrowser interface {
	ExtractAPIDocs(ctx context.Context, website string) (model.ProductsAPIs, error)
}

type GraphBuilder interface {
	BuildKnowledgeGraph(ctx context.Context, companyID string, data model.CompanyData) error
}

type ProgressReporter interface {
	Publish(ctx context.Context, sessionID, stage string, fraction float64, message string)
}

// Spawner runs a function in the background. Production uses GoSpawner;
// tests use SyncSpawner to make enrichment deterministic.
type Spawner interface {
	Go(fn func())
}

// GoSpawner runs functions on fresh goroutines.
type GoSpawner struct{}

func (GoSpawner) Go(fn func()) { go fn() }

// SyncSpawner runs functions inline.
type SyncSpawner struct{}

func (SyncSpawner) Go(fn func()) { fn() }

// Deps are the orchestrator's collaborators, injected explicitly.
type Deps struct {
	Overview    OverviewFetcher
	Competitors CompetitorFinder
	Financials  FinancialFetcher
	Team        TeamFetcher
	Sentiment   SentimentAnalyzer
	Research    DocsResearcher
	Browsing    DocsBrowser
	Graph       GraphBuilder
	Cache       *cache.Cache
	Progress    ProgressReporter
	Spawn       Spawner
}

type Orchestrator struct {
	deps Deps
}

func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// RunAnalysis executes the fast path for a company: staged adapter calls
// with progress published per stage, then the assembled profile cached
// under its three aliases (id, slug, session). A failing stage publishes a
// terminal error event and caches nothing. On success the background
// enrichment is spawned before returning.
func (o *Orchestrator) RunAnalysis(ctx context.Context, companyName, sessionID string, opts model.AnalyzeOptions) (*model.CompanyProfile, error) {
	d := o.deps
	log := zap.L().With(zap.String("company", companyName), zap.String("session_id", sessionID))
	log.Info("starting analysis")

	var data model.CompanyData

	// Progress is published as each stage completes; an error event repeats
	// the last published fraction so a consumer's view never regresses.
	data.Overview = d.Overview.Fetch(ctx, companyName)
	fraction := 0.15
	d.Progress.Publish(ctx, sessionID, model.StageResearchingCompany, fraction, "Researching company overview...")

	if opts.IncludeCompetitors {
		market, err := d.Competitors.Find(ctx, companyName)
		if err != nil {
			return nil, o.fail(ctx, sessionID, log, "competitor analysis", fraction, err)
		}
		data.MarketIntelligence = market
		fraction = 0.35
		d.Progress.Publish(ctx, sessionID, model.StageAnalyzingCompetitors, fraction, "Analyzing competitors...")
	}

	if opts.IncludeFinancials {
		financials, err := d.Financials.Fetch(ctx, companyName)
		if err != nil {
			return nil, o.fail(ctx, sessionID, log, "financial lookup", fraction, err)
		}
		data.Financials = financials
		fraction = 0.55
		d.Progress.Publish(ctx, sessionID, model.StageGatheringFinancials, fraction, "Gathering financial data...")
	}

	if opts.IncludeTeam {
		team, err := d.Team.Fetch(ctx, companyName)
		if err != nil {
			return nil, o.fail(ctx, sessionID, log, "team analysis", fraction, err)
		}
		data.TeamCulture = team
		fraction = 0.70
		d.Progress.Publish(ctx, sessionID, model.StageAnalyzingTeam, fraction, "Analyzing team & culture...")
	}

	if opts.IncludeNews {
		news, err := d.Sentiment.Analyze(ctx, companyName)
		if err != nil {
			return nil, o.fail(ctx, sessionID, log, "sentiment analysis", fraction, err)
		}
		data.NewsSentiment = news
		fraction = 0.85
		d.Progress.Publish(ctx, sessionID, model.StageProcessingNews, fraction, "Processing news & sentiment...")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	profile := &model.CompanyProfile{
		ID:               uuid.NewString(),
		CompanyName:      companyName,
		Slug:             data.Overview.Slug,
		AnalyzedAt:       now,
		Status:           "completed",
		EnrichmentStatus: model.EnrichmentPending,
		Data:             data,
		Metadata: model.CompanyMetadata{
			SourcesCount:    fastSourcesCount,
			ConfidenceScore: fastConfidence,
			LastUpdated:     now,
		},
	}

	if err := d.Cache.SetProfile(ctx, profile, sessionID); err != nil {
		return nil, o.fail(ctx, sessionID, log, "profile cache write", fraction, err)
	}

	d.Progress.Publish(ctx, sessionID, model.StageCompleted, 1.0, "Analysis complete!")
	log.Info("analysis complete", zap.String("company_id", profile.ID))

	overview := data.Overview
	id := profile.ID
	d.Spawn.Go(func() {
		o.RunEnrichment(context.Background(), companyName, id, sessionID, overview, opts)
	})

	return profile, nil
}

func (o *Orchestrator) fail(ctx context.Context, sessionID string, log *zap.Logger, stage string, fraction float64, err error) error {
	log.Error("analysis failed", zap.String("failed_stage", stage), zap.Error(err))
	o.deps.Progress.Publish(ctx, sessionID, model.StageError, fraction, "Error: "+err.Error())
	return err
}

// RunEnrichment fills the slow products/APIs section and builds the
// knowledge graph. Section refreshes run concurrently and individually fail
// open; the graph gets the freshest full picture while the cached profile
// only gains the products/APIs section, refreshed metadata, and the
// completed enrichment status. A profile evicted mid-enrichment drops the
// result silently.
func (o *Orchestrator) RunEnrichment(ctx context.Context, companyName, profileID, sessionID string, overview model.CompanyOverview, opts model.AnalyzeOptions) {
	d := o.deps
	log := zap.L().With(zap.String("company", companyName), zap.String("company_id", profileID))
	log.Info("starting enrichment")

	data := model.CompanyData{Overview: overview}

	g, gctx := errgroup.WithContext(ctx)

	if opts.IncludeAPIs {
		g.Go(func() error {
			docs, err := o.fetchDocs(gctx, companyName, overview.Website)
			if err != nil {
				log.Warn("documentation extraction failed", zap.Error(err))
				return nil
			}
			data.ProductsAPIs = docs
			return nil
		})
	}
	if opts.IncludeCompetitors {
		g.Go(func() error {
			market, err := d.Competitors.Find(gctx, companyName)
			if err != nil {
				log.Warn("competitor refresh failed", zap.Error(err))
				return nil
			}
			data.MarketIntelligence = market
			return nil
		})
	}
	if opts.IncludeFinancials {
		g.Go(func() error {
			financials, err := d.Financials.Fetch(gctx, companyName)
			if err != nil {
				log.Warn("financial refresh failed", zap.Error(err))
				return nil
			}
			data.Financials = financials
			return nil
		})
	}
	if opts.IncludeTeam {
		g.Go(func() error {
			team, err := d.Team.Fetch(gctx, companyName)
			if err != nil {
				log.Warn("team refresh failed", zap.Error(err))
				return nil
			}
			data.TeamCulture = team
			return nil
		})
	}
	if opts.IncludeNews {
		g.Go(func() error {
			news, err := d.Sentiment.Analyze(gctx, companyName)
			if err != nil {
				log.Warn("sentiment refresh failed", zap.Error(err))
				return nil
			}
			data.NewsSentiment = news
			return nil
		})
	}
	_ = g.Wait()

	if opts.IncludeGraph {
		if err := d.Graph.BuildKnowledgeGraph(ctx, profileID, data); err != nil {
			log.Warn("knowledge graph build failed", zap.Error(err))
		}
	}

	profile, found, err := d.Cache.GetProfile(ctx, profileID)
	if err != nil {
		log.Error("profile read failed, dropping enrichment", zap.Error(err))
		return
	}
	if !found {
		log.Warn("profile expired before enrichment finished, dropping result")
		return
	}

	profile.Data.ProductsAPIs = data.ProductsAPIs
	profile.EnrichmentStatus = model.EnrichmentCompleted
	profile.Metadata = model.CompanyMetadata{
		SourcesCount:    enrichedSourcesCount,
		ConfidenceScore: enrichedConfidence,
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}

	if err := d.Cache.SetProfile(ctx, profile, sessionID); err != nil {
		log.Error("enriched profile write failed", zap.Error(err))
		return
	}
	log.Info("enrichment complete")
}

// fetchDocs prefers browsing the company's own site; without a website it
// falls back to deep research on the name.
func (o *Orchestrator) fetchDocs(ctx context.Context, companyName, website string) (model.ProductsAPIs, error) {
	if website != "" {
		return o.deps.Browsing.ExtractAPIDocs(ctx, website)
	}
	return o.deps.Research.Fetch(ctx, companyName)
}
