package graph

import (
	"strings"
)

// parseNodes extracts the "### Nodes" table (columns id, name, type,
// properties) from the markdown graph document.
func parseNodes(content string) []Node {
	var nodes []Node
	for _, row := range parseTable(content, "Nodes") {
		nodes = append(nodes, Node{
			ID:         row["id"],
			Name:       row["name"],
			Type:       row["type"],
			Properties: row["properties"],
		})
	}
	return nodes
}

// parseEdges extracts the "### Edges" table (columns source, target,
// relationship, properties).
func parseEdges(content string) []Edge {
	var edges []Edge
	for _, row := range parseTable(content, "Edges") {
		edges = append(edges, Edge{
			Source:       row["source"],
			Target:       row["target"],
			Relationship: row["relationship"],
			Properties:   row["properties"],
		})
	}
	return edges
}

// parseTable finds the markdown table under "### section" and returns one
// header-keyed map per data row. Headers are lowercased; cells missing from
// short rows come back as empty strings.
func parseTable(content, section string) []map[string]string {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "###") && strings.EqualFold(strings.TrimSpace(strings.TrimLeft(trimmed, "# ")), section) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	// Skip blank lines up to the header row
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start >= len(lines) || !strings.Contains(lines[start], "|") {
		return nil
	}

	headers := splitRow(lines[start])
	for i := range headers {
		headers[i] = strings.ToLower(headers[i])
	}

	var rows []map[string]string
	for _, line := range lines[start+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "|") {
			break
		}
		if isSeparatorRow(trimmed) {
			continue
		}

		cells := splitRow(line)
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				row[header] = cells[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// splitRow splits a markdown table row into trimmed cells, dropping the
// empty leading/trailing cells produced by the enclosing pipes.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

// isSeparatorRow reports whether the row is the |---|---| divider
func isSeparatorRow(line string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '|', '-', ':', ' ':
			return -1
		}
		return r
	}, line)
	return stripped == ""
}
