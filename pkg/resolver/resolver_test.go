package resolver

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/fiddler-build/fiddler/pkg/errors"
	"github.com/fiddler-build/fiddler/pkg/graph"
	"github.com/fiddler-build/fiddler/pkg/manifest"
)

func mf(id string, deps ...string) *manifest.Manifest {
	return &manifest.Manifest{
		Identifier:  id,
		Path:        id,
		Autoload:    manifest.Rules{},
		AutoloadDev: manifest.Rules{},
		Deps:        deps,
	}
}

// buildGraph registers manifests under their own identifiers.
func buildGraph(t *testing.T, ms ...*manifest.Manifest) *graph.PackageGraph {
	t.Helper()
	g := graph.New()
	for _, m := range ms {
		if err := g.Add(m.Identifier, m); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func resolvedIDs(s *ResolvedSet) []string {
	ids := make([]string, 0, s.Len())
	for _, m := range s.Manifests() {
		ids = append(ids, m.Identifier)
	}
	return ids
}

func TestResolveLinearChain(t *testing.T) {
	g := buildGraph(t, mf("a", "b"), mf("b", "c"), mf("c"))

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"b", "c"}
	if got := resolvedIDs(set); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(a) = %v, want %v", got, want)
	}
}

func TestResolveExcludesStart(t *testing.T) {
	g := buildGraph(t, mf("a", "b"), mf("b"))

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range set.Manifests() {
		if m.Identifier == "a" {
			t.Error("Resolve(a) includes the starting component")
		}
	}
}

func TestResolveDiamond(t *testing.T) {
	// A→B, A→C, B→D, C→D: D resolves exactly once.
	g := buildGraph(t, mf("a", "b", "c"), mf("b", "d"), mf("c", "d"), mf("d"))

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"b", "d", "c"} // depth-first in declared order
	if got := resolvedIDs(set); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(a) = %v, want %v", got, want)
	}
}

func TestResolveCycle(t *testing.T) {
	// a→b, b→a: terminates, a excluded, no duplicates.
	g := buildGraph(t, mf("a", "b"), mf("b", "a"))

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"b"}
	if got := resolvedIDs(set); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(a) = %v, want %v", got, want)
	}
}

func TestResolveSelfLoop(t *testing.T) {
	g := buildGraph(t, mf("a", "a", "b"), mf("b"))

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"b"}
	if got := resolvedIDs(set); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(a) = %v, want %v", got, want)
	}
}

func TestResolveLongCycle(t *testing.T) {
	g := buildGraph(t, mf("a", "b"), mf("b", "c"), mf("c", "a"))

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"b", "c"}
	if got := resolvedIDs(set); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(a) = %v, want %v", got, want)
	}
}

func TestResolveSkipsEnvironmentMarkers(t *testing.T) {
	g := buildGraph(t,
		mf("a", "b", "vendor/php", "vendor/ext-json", "vendor/lib-curl"),
		mf("b"),
	)

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"b"}
	if got := resolvedIDs(set); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(a) = %v, want %v", got, want)
	}
}

func TestResolveMissingDependency(t *testing.T) {
	g := buildGraph(t, mf("a", "b"), mf("b", "ghost"))

	_, err := Resolve(g, "a")
	if err == nil {
		t.Fatal("Resolve() expected error for missing dependency, got nil")
	}
	if !errors.Is(err, errors.ErrCodeUnresolvedDependency) {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeUnresolvedDependency)
	}
	// The error names both the missing identifier and the requester.
	for _, want := range []string{"'ghost'", "'b'"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %s", err.Error(), want)
		}
	}
}

func TestResolveUnknownStart(t *testing.T) {
	g := buildGraph(t, mf("a"))
	if _, err := Resolve(g, "nope"); err == nil {
		t.Error("Resolve() expected error for unknown start, got nil")
	}
}

func TestResolveAliasedManifestOnce(t *testing.T) {
	// One external manifest registered under its own name and a replace
	// alias; depending on both yields a single resolved instance.
	ext := mf("vendor/acme/router")
	g := graph.New()
	if err := g.Add("vendor/acme/router", ext); err != nil {
		t.Fatal(err)
	}
	if err := g.Add("vendor/legacy/router", ext); err != nil {
		t.Fatal(err)
	}
	if err := g.Add("a", mf("a", "vendor/legacy/router", "vendor/acme/router")); err != nil {
		t.Fatal(err)
	}

	set, err := Resolve(g, "a")
	if err != nil {
		t.Fatal(err)
	}

	if set.Len() != 1 {
		t.Fatalf("Resolve(a) has %d manifests, want 1: %v", set.Len(), resolvedIDs(set))
	}
	if set.Manifests()[0] != ext {
		t.Error("resolved manifest is not the shared instance")
	}
}

func TestResolveAliasFromEitherName(t *testing.T) {
	ext := mf("vendor/acme/router")
	for _, depName := range []string{"vendor/acme/router", "vendor/legacy/router"} {
		g := graph.New()
		if err := g.Add("vendor/acme/router", ext); err != nil {
			t.Fatal(err)
		}
		if err := g.Add("vendor/legacy/router", ext); err != nil {
			t.Fatal(err)
		}
		if err := g.Add("a", mf("a", depName)); err != nil {
			t.Fatal(err)
		}

		set, err := Resolve(g, "a")
		if err != nil {
			t.Fatalf("Resolve via %s: %v", depName, err)
		}
		if set.Len() != 1 || set.Manifests()[0] != ext {
			t.Errorf("Resolve via %s did not yield the shared manifest", depName)
		}
	}
}

func TestResolveGraphNotMutated(t *testing.T) {
	a := mf("a", "b")
	b := mf("b")
	g := buildGraph(t, a, b)

	if _, err := Resolve(g, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(g, "a"); err != nil {
		t.Fatal(err)
	}

	if len(a.Deps) != 1 || a.Deps[0] != "b" {
		t.Errorf("manifest deps mutated: %v", a.Deps)
	}
	if g.Len() != 2 {
		t.Errorf("graph size changed: %d", g.Len())
	}
}

func TestResolveDeepChain(t *testing.T) {
	// A chain deep enough to blow a recursive implementation's stack
	// finishes fine with the explicit frame stack.
	const depth = 200000
	g := graph.New()
	for i := 0; i < depth; i++ {
		var deps []string
		if i+1 < depth {
			deps = []string{idFor(i + 1)}
		}
		if err := g.Add(idFor(i), mf(idFor(i), deps...)); err != nil {
			t.Fatal(err)
		}
	}

	set, err := Resolve(g, idFor(0))
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != depth-1 {
		t.Errorf("resolved %d manifests, want %d", set.Len(), depth-1)
	}
}

func idFor(i int) string {
	return "components/" + strconv.Itoa(i)
}
