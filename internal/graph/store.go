// Package graph persists the company knowledge graph in Neo4j and serves
// depth-bounded subgraphs for visualization. An unconfigured store degrades
// to a no-op: builds are skipped and queries return empty graphs.
package graph

import (
	"context"
	"time"

	"github.com/sells-group/companyintel/internal/model"
)

// Store is the knowledge-graph persistence interface.
type Store interface {
	// BuildKnowledgeGraph merges the profile data into the graph.
	BuildKnowledgeGraph(ctx context.Context, companyID string, data model.CompanyData) error
	// GetGraphData returns the subgraph around a company up to depth hops.
	GetGraphData(ctx context.Context, companyID string, depth int) (*model.GraphData, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// nopStore satisfies Store when no graph backend is configured.
type nopStore struct{}

// NewNopStore returns a Store that skips builds and serves empty graphs.
func NewNopStore() Store {
	return nopStore{}
}

func (nopStore) BuildKnowledgeGraph(context.Context, string, model.CompanyData) error {
	return nil
}

func (nopStore) GetGraphData(_ context.Context, _ string, _ int) (*model.GraphData, error) {
	return emptyGraph(), nil
}

func (nopStore) Ping(context.Context) error  { return nil }
func (nopStore) Close(context.Context) error { return nil }

func emptyGraph() *model.GraphData {
	return &model.GraphData{
		Nodes: []model.GraphNode{},
		Edges: []model.GraphEdge{},
		Metadata: model.GraphMetadata{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
