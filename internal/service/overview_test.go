package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/companyintel/pkg/tavily"
)

const overviewJSON = `{
	"description": "Acme builds robots.",
	"founded_year": 2015,
	"headquarters": "Portland, OR",
	"employee_count": "200-500",
	"website": "https://acme.dev",
	"industry": ["Robotics"],
	"mission": "Robots for everyone",
	"status": "private"
}`

func TestOverviewFetch(t *testing.T) {
	search := &fakeSearch{resp: &tavily.SearchResponse{
		Answer:  "Acme is a robotics company.",
		Results: []tavily.Result{{Title: "About Acme", Content: "robots"}},
	}}
	ex, _ := fakeExtractor(overviewJSON)
	svc := NewOverviewService(search, ex, "key")

	ov := svc.Fetch(context.Background(), "Acme")
	assert.Equal(t, "Acme", ov.Name)
	assert.Equal(t, "acme", ov.Slug)
	assert.Equal(t, "Acme builds robots.", ov.Description)
	require.NotNil(t, ov.FoundedYear)
	assert.Equal(t, 2015, *ov.FoundedYear)
	assert.Equal(t, "https://acme.dev", ov.Website)
	assert.Equal(t, []string{"Robotics"}, ov.Industry)
}

func TestOverviewFetch_NoKeyUsesPlaceholder(t *testing.T) {
	ex, llm := fakeExtractor(overviewJSON)
	svc := NewOverviewService(&fakeSearch{}, ex, "")

	ov := svc.Fetch(context.Background(), "Acme Corp")
	assert.Equal(t, "acme-corp", ov.Slug)
	assert.Equal(t, "https://acme-corp.com", ov.Website)
	assert.Equal(t, "private", ov.Status)
	assert.Zero(t, llm.calls)
}

func TestOverviewFetch_SearchFailureUsesPlaceholder(t *testing.T) {
	ex, _ := fakeExtractor(overviewJSON)
	svc := NewOverviewService(&fakeSearch{err: assert.AnError}, ex, "key")

	ov := svc.Fetch(context.Background(), "Acme")
	assert.Equal(t, "Unknown", ov.Headquarters)
	assert.Equal(t, []string{"Technology"}, ov.Industry)
}

func TestOverviewFetch_ExtractionGapsFilled(t *testing.T) {
	search := &fakeSearch{resp: &tavily.SearchResponse{}}
	ex, _ := fakeExtractor(`{"description": "Acme builds robots."}`)
	svc := NewOverviewService(search, ex, "key")

	ov := svc.Fetch(context.Background(), "Acme")
	assert.Equal(t, "Acme builds robots.", ov.Description)
	// Fields absent from extraction keep placeholder values.
	assert.Equal(t, "Unknown", ov.EmployeeCount)
	assert.Equal(t, "https://acme.com", ov.Website)
	assert.Equal(t, "private", ov.Status)
}
