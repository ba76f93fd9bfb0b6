package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/config"
	"github.com/sells-group/companyintel/pkg/anthropic"
	"github.com/sells-group/companyintel/pkg/tavily"
	"github.com/sells-group/companyintel/pkg/yutori"
)

func testCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewWithClient(rdb, config.CacheConfig{
		ProfileTTLSecs:  3600,
		ProgressTTLSecs: 300,
		ResearchTTLDays: 7,
		BrowsingTTLDays: 7,
		SearchTTLDays:   3,
		PendingTTLSecs:  600,
	})
}

func testYutoriConfig() config.YutoriConfig {
	return config.YutoriConfig{
		Key:              "test-key",
		PollIntervalSecs: 0,
		ResearchAttempts: 3,
		BrowsingAttempts: 3,
	}
}

// fakeLLM returns a canned text response for every CreateMessage call.
type fakeLLM struct {
	text  string
	err   error
	calls int
}

func (f *fakeLLM) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Model:   "claude-haiku-4-5-20251001",
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

func fakeExtractor(text string) (*Extractor, *fakeLLM) {
	llm := &fakeLLM{text: text}
	return NewExtractor(llm, "claude-haiku-4-5-20251001"), llm
}

// fakeSearch implements tavily.Client.
type fakeSearch struct {
	resp  *tavily.SearchResponse
	err   error
	calls int
}

func (f *fakeSearch) Search(_ context.Context, _ tavily.SearchRequest) (*tavily.SearchResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// fakeTasks implements yutori.Client with per-method hooks.
type fakeTasks struct {
	createResearch func(yutori.ResearchRequest) (*yutori.TaskCreated, error)
	getResearch    func(string) (*yutori.TaskStatus, error)
	createBrowsing func(yutori.BrowsingRequest) (*yutori.TaskCreated, error)
	getBrowsing    func(string) (*yutori.TaskStatus, error)

	researchCreates int
	browsingCreates int
}

func (f *fakeTasks) CreateResearchTask(_ context.Context, req yutori.ResearchRequest) (*yutori.TaskCreated, error) {
	f.researchCreates++
	return f.createResearch(req)
}

func (f *fakeTasks) GetResearchTask(_ context.Context, id string) (*yutori.TaskStatus, error) {
	return f.getResearch(id)
}

func (f *fakeTasks) CreateBrowsingTask(_ context.Context, req yutori.BrowsingRequest) (*yutori.TaskCreated, error) {
	f.browsingCreates++
	return f.createBrowsing(req)
}

func (f *fakeTasks) GetBrowsingTask(_ context.Context, id string) (*yutori.TaskStatus, error) {
	return f.getBrowsing(id)
}
