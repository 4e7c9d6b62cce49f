// Package graph answers "what is institutionally connected to X" queries over
// a small relationship graph without a graph database. The graph is loaded
// once from a markdown document and is read-only afterward.
package graph

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mcmp-ai/assistant/pkg/logging"
)

// Node is one entity in the institutional graph
type Node struct {
	ID         string
	Name       string
	Type       string
	Properties string
}

// Edge is a typed relationship between two nodes. The relationship label is
// directed ("leads"), but adjacency treats edges as undirected.
type Edge struct {
	Source       string
	Target       string
	Relationship string
	Properties   string
}

// Subgraph is the node/edge subset reachable from query-matched nodes
type Subgraph struct {
	Nodes []Node
	Edges []Edge
}

// Empty reports whether the subgraph contains no nodes
func (s *Subgraph) Empty() bool {
	return len(s.Nodes) == 0
}

// Index holds the loaded graph plus an adjacency list for neighbor expansion
type Index struct {
	nodes   []Node
	edges   []Edge
	adj     map[string][]string
	nodeIDs map[string]int
	logger  logging.Logger
}

// Option represents an option for configuring the graph index
type Option func(*Index)

// WithLogger sets the logger for the graph index
func WithLogger(logger logging.Logger) Option {
	return func(i *Index) {
		i.logger = logger
	}
}

// Load builds an index from the markdown graph document at path. A missing
// file yields an empty index, not an error: graph context is supplementary
// and the answering pipeline must keep working without it.
func Load(path string, options ...Option) *Index {
	index := &Index{
		adj:     make(map[string][]string),
		nodeIDs: make(map[string]int),
		logger:  logging.New(),
	}

	for _, option := range options {
		option(index)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		index.logger.Warn(context.Background(), "Graph source not available, continuing with empty graph", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return index
	}

	index.nodes = parseNodes(string(content))
	index.edges = parseEdges(string(content))

	for i, node := range index.nodes {
		index.nodeIDs[node.ID] = i
	}
	for _, edge := range index.edges {
		if edge.Source == "" || edge.Target == "" {
			continue
		}
		index.adj[edge.Source] = append(index.adj[edge.Source], edge.Target)
		index.adj[edge.Target] = append(index.adj[edge.Target], edge.Source)
	}

	index.logger.Info(context.Background(), "Loaded institutional graph", map[string]interface{}{
		"path":  path,
		"nodes": len(index.nodes),
		"edges": len(index.edges),
	})

	return index
}

// Nodes returns the loaded nodes in source order
func (i *Index) Nodes() []Node {
	return i.nodes
}

// Edges returns the loaded edges in source order
func (i *Index) Edges() []Edge {
	return i.edges
}

// Subgraph finds nodes whose id, name or type contains any whitespace token
// of query (case-insensitive), expands depth hops along the adjacency list,
// and returns the reached nodes plus every edge whose both endpoints were
// reached. Node and edge order follows the load order of the source.
func (i *Index) Subgraph(query string, depth int) *Subgraph {
	terms := strings.Fields(strings.ToLower(query))
	reached := make(map[string]bool)

	for _, node := range i.nodes {
		searchable := strings.ToLower(node.ID + " " + node.Name + " " + node.Type)
		for _, term := range terms {
			if strings.Contains(searchable, term) {
				reached[node.ID] = true
				break
			}
		}
	}

	frontier := make([]string, 0, len(reached))
	for id := range reached {
		frontier = append(frontier, id)
	}

	for hop := 0; hop < depth; hop++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range i.adj[id] {
				if !reached[neighbor] {
					reached[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	sub := &Subgraph{}
	for _, node := range i.nodes {
		if reached[node.ID] {
			sub.Nodes = append(sub.Nodes, node)
		}
	}
	for _, edge := range i.edges {
		// Edges referencing unknown node ids are dropped here silently;
		// they still contributed to adjacency above.
		if reached[edge.Source] && reached[edge.Target] {
			if _, ok := i.nodeIDs[edge.Source]; !ok {
				continue
			}
			if _, ok := i.nodeIDs[edge.Target]; !ok {
				continue
			}
			sub.Edges = append(sub.Edges, edge)
		}
	}

	return sub
}

// ToText linearizes a subgraph into a natural-language block: one line per
// node, then one line per edge with node names resolved for readability.
// An empty subgraph yields an empty string; callers supply their own
// fallback text.
func (i *Index) ToText(sub *Subgraph) string {
	if sub == nil || sub.Empty() {
		return ""
	}

	names := make(map[string]string, len(sub.Nodes))
	for _, node := range sub.Nodes {
		name := node.Name
		if name == "" {
			name = node.ID
		}
		names[node.ID] = name
	}

	var lines []string
	lines = append(lines, "Institutional Context:")
	for _, node := range sub.Nodes {
		line := fmt.Sprintf("- **%s** (%s)", names[node.ID], node.Type)
		if node.Properties != "" {
			line += ": " + node.Properties
		}
		lines = append(lines, line)
	}

	if len(sub.Edges) > 0 {
		lines = append(lines, "", "Relationships:")
		for _, edge := range sub.Edges {
			source := names[edge.Source]
			if source == "" {
				source = edge.Source
			}
			target := names[edge.Target]
			if target == "" {
				target = edge.Target
			}
			rel := edge.Relationship
			if rel == "" {
				rel = "related to"
			}
			line := fmt.Sprintf("- %s **%s** %s", source, rel, target)
			if edge.Properties != "" {
				line += " (" + edge.Properties + ")"
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
