// Package resolver computes the transitive dependency closure of a component.
//
// Resolution is a depth-first walk over declared dependency order. The walk is
// pure with respect to the package graph: all bookkeeping lives in the freshly
// allocated result set, so independent resolutions never interfere and the
// graph can be shared read-only.
package resolver

import (
	"github.com/fiddler-build/fiddler/pkg/errors"
	"github.com/fiddler-build/fiddler/pkg/graph"
	"github.com/fiddler-build/fiddler/pkg/manifest"
)

// ResolvedSet is the deduplicated, insertion-ordered set of manifests
// collected during one closure walk. Iteration order is first-discovered-first
// and is NOT topological: callers must not assume dependencies precede
// dependents.
type ResolvedSet struct {
	manifests []*manifest.Manifest
	visited   map[string]bool
}

func newResolvedSet() *ResolvedSet {
	return &ResolvedSet{visited: make(map[string]bool)}
}

// Manifests returns the resolved manifests in discovery order.
func (s *ResolvedSet) Manifests() []*manifest.Manifest { return s.manifests }

// Contains reports whether the identifier was visited during the walk.
// The starting component is visited but never part of Manifests.
func (s *ResolvedSet) Contains(id string) bool { return s.visited[id] }

// Len returns the number of resolved manifests.
func (s *ResolvedSet) Len() int { return len(s.manifests) }

func (s *ResolvedSet) add(id string, m *manifest.Manifest) {
	s.visited[id] = true
	s.manifests = append(s.manifests, m)
}

// frame tracks one manifest being expanded and the next dependency to visit.
// An explicit stack keeps pathological graphs from exhausting the goroutine
// call stack.
type frame struct {
	m    *manifest.Manifest
	next int
}

// Resolve walks the dependency closure of start and returns every transitive
// dependency exactly once, excluding start itself.
//
// For each dependency identifier, in declared order:
//   - environment markers (vendor/php, vendor/ext-*, vendor/lib-*) are
//     skipped silently; they denote runtime capabilities, not components
//   - an identifier absent from the graph is an UNRESOLVED_DEPENDENCY error
//     naming both the missing identifier and the requester; the walk aborts
//     with no partial result
//   - an identifier already incorporated is neither re-added nor re-expanded,
//     which collapses diamonds to one instance and terminates cycles
func Resolve(g *graph.PackageGraph, start string) (*ResolvedSet, error) {
	root, ok := g.Lookup(start)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnresolvedDependency, "component '%s' does not exist", start)
	}

	set := newResolvedSet()
	set.visited[start] = true

	stack := []frame{{m: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.m.Deps) {
			stack = stack[:len(stack)-1]
			continue
		}

		dep := top.m.Deps[top.next]
		top.next++

		if manifest.IsEnvironmentMarker(dep) {
			continue
		}

		m, ok := g.Lookup(dep)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnresolvedDependency,
				"dependency '%s' required by '%s' does not exist", dep, top.m.Identifier)
		}

		// Check both the referenced identifier and the manifest's canonical
		// identifier: a replace-alias reached under two names must still
		// resolve to a single instance.
		if set.visited[dep] || set.visited[m.Identifier] {
			continue
		}

		set.visited[dep] = true
		set.add(m.Identifier, m)
		stack = append(stack, frame{m: m})
	}

	return set, nil
}
