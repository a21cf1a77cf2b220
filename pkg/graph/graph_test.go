package graph

import (
	"reflect"
	"testing"

	"github.com/fiddler-build/fiddler/pkg/errors"
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

func TestAddAndLookup(t *testing.T) {
	g := New()
	m := mf("components/auth")

	if err := g.Add(m.Identifier, m); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	got, ok := g.Lookup("components/auth")
	if !ok {
		t.Fatal("Lookup() did not find added manifest")
	}
	if got != m {
		t.Error("Lookup() returned a different manifest instance")
	}

	if _, ok := g.Lookup("missing"); ok {
		t.Error("Lookup() found manifest that was never added")
	}
}

func TestAddDuplicate(t *testing.T) {
	g := New()
	if err := g.Add("a", mf("a")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	err := g.Add("a", mf("a"))
	if err == nil {
		t.Fatal("Add() expected duplicate error, got nil")
	}
	if !errors.Is(err, errors.ErrCodeDuplicateComponent) {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeDuplicateComponent)
	}
}

func TestAddInvalidIdentifier(t *testing.T) {
	tests := []string{"", "../escape", "a//b", `a\b`, "/absolute"}
	for _, id := range tests {
		g := New()
		err := g.Add(id, mf("x"))
		if err == nil {
			t.Errorf("Add(%q) expected error, got nil", id)
			continue
		}
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Add(%q) code = %q, want %q", id, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
	}
}

func TestAliasSharesInstance(t *testing.T) {
	g := New()
	m := mf("vendor/acme/router")

	if err := g.Add("vendor/acme/router", m); err != nil {
		t.Fatal(err)
	}
	if err := g.Add("vendor/legacy/router", m); err != nil {
		t.Fatal(err)
	}

	orig, _ := g.Lookup("vendor/acme/router")
	alias, _ := g.Lookup("vendor/legacy/router")
	if orig != alias {
		t.Error("alias resolves to a different manifest instance")
	}
}

func TestIdentifiersInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"b", "a", "vendor/x"} {
		if err := g.Add(id, mf(id)); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"b", "a", "vendor/x"}
	if got := g.Identifiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers() = %v, want %v", got, want)
	}
}

func TestTargetsSkipVendorNamespace(t *testing.T) {
	g := New()
	for _, id := range []string{"app", "vendor/acme/router", "components/base", "vendor/php"} {
		if err := g.Add(id, mf(id)); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"app", "components/base"}
	if got := g.Targets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Targets() = %v, want %v", got, want)
	}
}
