package model

// GraphNode is one node in the knowledge-graph visualization payload.
type GraphNode struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// GraphEdge is one relationship in the visualization payload.
type GraphEdge struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// GraphMetadata summarizes a graph query result.
type GraphMetadata struct {
	NodeCount   int    `json:"node_count"`
	EdgeCount   int    `json:"edge_count"`
	GeneratedAt string `json:"generated_at"`
}

// GraphData is the response shape for graph queries.
type GraphData struct {
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}
