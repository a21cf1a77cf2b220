// Package graph provides the package graph: the merged universe of local and
// external component manifests, keyed by identifier.
//
// The graph is a pure lookup surface. It is assembled once per build run
// (local entries first, then external) and never mutated afterwards; all
// resolution logic lives in the resolver package.
package graph

import (
	"github.com/fiddler-build/fiddler/pkg/errors"
	"github.com/fiddler-build/fiddler/pkg/manifest"
)

// PackageGraph maps component identifiers to their manifests.
//
// The zero value is not usable - use New. PackageGraph is safe for concurrent
// reads once construction is finished.
type PackageGraph struct {
	manifests map[string]*manifest.Manifest
	order     []string // insertion order, used for deterministic reporting
}

// New creates an empty package graph.
func New() *PackageGraph {
	return &PackageGraph{manifests: make(map[string]*manifest.Manifest)}
}

// Add registers a manifest under the given identifier. The identifier may
// differ from m.Identifier for replace-aliases, where several keys share one
// manifest instance. Identifiers are validated on entry since external ones
// come straight from installed.json. Returns DUPLICATE_COMPONENT if the
// identifier is taken.
func (g *PackageGraph) Add(id string, m *manifest.Manifest) error {
	if err := errors.ValidateIdentifier(id); err != nil {
		return err
	}
	if _, exists := g.manifests[id]; exists {
		return errors.New(errors.ErrCodeDuplicateComponent, "duplicate component identifier %q", id)
	}
	g.manifests[id] = m
	g.order = append(g.order, id)
	return nil
}

// Lookup returns the manifest registered under id and whether it exists.
func (g *PackageGraph) Lookup(id string) (*manifest.Manifest, bool) {
	m, ok := g.manifests[id]
	return m, ok
}

// Identifiers returns all registered identifiers in insertion order:
// local components first, then external packages.
func (g *PackageGraph) Identifiers() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Targets returns the identifiers of buildable components, in insertion
// order. Anything under the reserved "vendor/" namespace is resolvable as a
// dependency but never built as a target, even if a local manifest chose to
// live under a vendor/ directory name.
func (g *PackageGraph) Targets() []string {
	var targets []string
	for _, id := range g.order {
		if !manifest.IsVendorIdentifier(id) {
			targets = append(targets, id)
		}
	}
	return targets
}

// Len returns the number of registered identifiers (aliases counted).
func (g *PackageGraph) Len() int { return len(g.order) }
