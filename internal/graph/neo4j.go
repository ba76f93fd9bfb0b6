package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/config"
	"github.com/sells-group/companyintel/internal/model"
)

// Per-section node limits keep the graph readable for visualization.
const (
	maxProducts     = 5
	maxCompetitors  = 5
	maxTechnologies = 10
	maxLeaders      = 5
)

// neo4jStore implements Store over the Bolt driver.
type neo4jStore struct {
	driver neo4j.DriverWithContext
}

// New connects to Neo4j. An empty URI returns the no-op store.
func New(cfg config.Neo4jConfig) (Store, error) {
	if cfg.URI == "" {
		zap.L().Info("neo4j not configured, graph features disabled")
		return NewNopStore(), nil
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, eris.Wrap(err, "graph: create driver")
	}

	return &neo4jStore{driver: driver}, nil
}

func (s *neo4jStore) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *neo4jStore) BuildKnowledgeGraph(ctx context.Context, companyID string, data model.CompanyData) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	ov := data.Overview
	if _, err := session.Run(ctx, `
		MERGE (c:Company {id: $id})
		SET c.name = $name,
		    c.slug = $slug,
		    c.description = $description,
		    c.founded_year = $founded_year,
		    c.headquarters = $headquarters,
		    c.website = $website`,
		map[string]any{
			"id":           companyID,
			"name":         ov.Name,
			"slug":         ov.Slug,
			"description":  ov.Description,
			"founded_year": intOrNil(ov.FoundedYear),
			"headquarters": ov.Headquarters,
			"website":      ov.Website,
		}); err != nil {
		return eris.Wrap(err, "graph: merge company")
	}

	for _, p := range limit(data.ProductsAPIs.Products, maxProducts) {
		if _, err := session.Run(ctx, `
			MERGE (p:Product {id: $id})
			SET p.name = $name,
			    p.description = $description,
			    p.category = $category
			WITH p
			MATCH (c:Company {id: $company_id})
			MERGE (c)-[:OFFERS]->(p)`,
			map[string]any{
				"id":          uuid.NewString(),
				"name":        p.Name,
				"description": p.Description,
				"category":    p.Category,
				"company_id":  companyID,
			}); err != nil {
			return eris.Wrap(err, "graph: merge product")
		}
	}

	for _, comp := range limit(data.MarketIntelligence.Competitors, maxCompetitors) {
		if _, err := session.Run(ctx, `
			MERGE (comp:Company {id: $id})
			SET comp.name = $name,
			    comp.slug = $slug
			WITH comp
			MATCH (c:Company {id: $company_id})
			MERGE (c)-[r:COMPETES_WITH]->(comp)
			SET r.overlap = $overlap,
			    r.relationship = $relationship`,
			map[string]any{
				"id":           uuid.NewString(),
				"name":         comp.Name,
				"slug":         comp.Slug,
				"company_id":   companyID,
				"overlap":      comp.MarketOverlapPercent,
				"relationship": comp.Relationship,
			}); err != nil {
			return eris.Wrap(err, "graph: merge competitor")
		}
	}

	for _, tech := range limit(data.TeamCulture.TechStack, maxTechnologies) {
		if _, err := session.Run(ctx, `
			MERGE (t:Technology {name: $name})
			WITH t
			MATCH (c:Company {id: $company_id})
			MERGE (c)-[:USES]->(t)`,
			map[string]any{
				"name":       tech,
				"company_id": companyID,
			}); err != nil {
			return eris.Wrap(err, "graph: merge technology")
		}
	}

	for _, l := range limit(data.TeamCulture.Leadership, maxLeaders) {
		if _, err := session.Run(ctx, `
			MERGE (l:Person {id: $id})
			SET l.name = $name,
			    l.title = $title,
			    l.background = $background
			WITH l
			MATCH (c:Company {id: $company_id})
			MERGE (l)-[:LEADS]->(c)`,
			map[string]any{
				"id":         uuid.NewString(),
				"name":       l.Name,
				"title":      l.Title,
				"background": l.Background,
				"company_id": companyID,
			}); err != nil {
			return eris.Wrap(err, "graph: merge leader")
		}
	}

	zap.L().Info("knowledge graph built", zap.String("company_id", companyID))
	return nil
}

func (s *neo4jStore) GetGraphData(ctx context.Context, companyID string, depth int) (*model.GraphData, error) {
	if depth < 1 {
		depth = 1
	}
	if depth > 3 {
		depth = 3
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	// Variable-length bounds cannot be parameters; depth is clamped above.
	query := fmt.Sprintf(`
		MATCH path = (c:Company {id: $company_id})-[*0..%d]-(n)
		RETURN DISTINCT c, n, relationships(path) AS rels
		LIMIT 100`, depth)

	result, err := session.Run(ctx, query, map[string]any{"company_id": companyID})
	if err != nil {
		return nil, eris.Wrap(err, "graph: query subgraph")
	}

	nodes := map[string]model.GraphNode{}
	edgeSeen := map[string]bool{}
	var edges []model.GraphEdge

	for result.Next(ctx) {
		rec := result.Record()

		if v, ok := rec.Get("c"); ok {
			addNode(nodes, v)
		}
		if v, ok := rec.Get("n"); ok {
			addNode(nodes, v)
		}
		if v, ok := rec.Get("rels"); ok {
			rels, _ := v.([]any)
			for _, rv := range rels {
				rel, ok := rv.(neo4j.Relationship)
				if !ok {
					continue
				}
				id := rel.StartElementId + "-" + rel.EndElementId
				if edgeSeen[id] {
					continue
				}
				edgeSeen[id] = true
				edges = append(edges, model.GraphEdge{
					ID:         id,
					Source:     rel.StartElementId,
					Target:     rel.EndElementId,
					Label:      rel.Type,
					Properties: rel.Props,
				})
			}
		}
	}
	if err := result.Err(); err != nil {
		return nil, eris.Wrap(err, "graph: read subgraph")
	}

	out := emptyGraph()
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, n)
	}
	out.Edges = append(out.Edges, edges...)
	out.Metadata = model.GraphMetadata{
		NodeCount:   len(out.Nodes),
		EdgeCount:   len(out.Edges),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return out, nil
}

func addNode(nodes map[string]model.GraphNode, v any) {
	node, ok := v.(neo4j.Node)
	if !ok {
		return
	}
	if _, exists := nodes[node.ElementId]; exists {
		return
	}

	label := "Node"
	if len(node.Labels) > 0 {
		label = node.Labels[0]
	}
	props := map[string]any{}
	for k, p := range node.Props {
		props[k] = p
	}
	props["type"] = strings.ToLower(label)

	nodes[node.ElementId] = model.GraphNode{
		ID:         node.ElementId,
		Label:      label,
		Properties: props,
	}
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
