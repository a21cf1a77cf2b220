package graph

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fiddler-build/fiddler/pkg/manifest"
)

// ToDOT converts the package graph to Graphviz DOT format.
// Local components are drawn as plain boxes, external packages grey, and
// environment markers dashed. Edges follow each manifest's declared
// dependency order, so the output is deterministic for a given graph.
func ToDOT(g *PackageGraph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph fiddler {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	markers := make(map[string]bool)
	for _, id := range g.Identifiers() {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(nodeAttrs(id), ", "))
		m, _ := g.Lookup(id)
		for _, dep := range m.Deps {
			if _, registered := g.Lookup(dep); !registered && manifest.IsEnvironmentMarker(dep) {
				markers[dep] = true
			}
		}
	}
	for _, id := range slices.Sorted(maps.Keys(markers)) {
		fmt.Fprintf(&buf, "  %q [style=\"rounded,filled,dashed\", fillcolor=white, fontcolor=grey40];\n", id)
	}

	buf.WriteString("\n")
	for _, id := range g.Identifiers() {
		m, _ := g.Lookup(id)
		for _, dep := range m.Deps {
			if _, ok := g.Lookup(dep); !ok && !manifest.IsEnvironmentMarker(dep) {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(id string) []string {
	attrs := []string{fmt.Sprintf("label=%q", id)}
	if manifest.IsVendorIdentifier(id) {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
