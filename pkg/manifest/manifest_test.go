package manifest

import (
	"reflect"
	"testing"
)

func TestRulesMergeConcatenatesArrays(t *testing.T) {
	prod := Rules{"files": []any{"src/functions.php"}}
	dev := Rules{"files": []any{"tests/bootstrap.php"}}

	merged := prod.Merge(dev)

	want := []any{"src/functions.php", "tests/bootstrap.php"}
	if !reflect.DeepEqual(merged["files"], want) {
		t.Errorf("merged files = %v, want %v", merged["files"], want)
	}

	// Inputs must stay untouched.
	if len(prod["files"].([]any)) != 1 {
		t.Errorf("production rules mutated: %v", prod["files"])
	}
	if len(dev["files"].([]any)) != 1 {
		t.Errorf("dev rules mutated: %v", dev["files"])
	}
}

func TestRulesMergeMergesObjects(t *testing.T) {
	prod := Rules{"psr-4": map[string]any{"Acme\\": "src/"}}
	dev := Rules{"psr-4": map[string]any{"Acme\\Tests\\": "tests/"}}

	merged := prod.Merge(dev)

	psr4, ok := merged["psr-4"].(map[string]any)
	if !ok {
		t.Fatalf("psr-4 = %T, want map", merged["psr-4"])
	}
	if psr4["Acme\\"] != "src/" || psr4["Acme\\Tests\\"] != "tests/" {
		t.Errorf("psr-4 = %v, want both prefixes", psr4)
	}
}

func TestRulesMergeDisjointKeys(t *testing.T) {
	prod := Rules{"classmap": []any{"lib/"}}
	dev := Rules{"files": []any{"tests/helpers.php"}}

	merged := prod.Merge(dev)

	if len(merged) != 2 {
		t.Errorf("merged has %d keys, want 2: %v", len(merged), merged)
	}
}

func TestRulesMergeDoesNotAliasAdoptedValues(t *testing.T) {
	prod := Rules{}
	dev := Rules{"files": []any{"tests/a.php"}}

	merged := prod.Merge(dev)

	// The adopted slice must be a copy: growing or rewriting it in the
	// merged result must not reach back into the dev rules.
	files := merged["files"].([]any)
	files[0] = "overwritten"

	if dev["files"].([]any)[0] != "tests/a.php" {
		t.Errorf("dev rules aliased by merge result: %v", dev["files"])
	}
}

func TestRulesCloneNil(t *testing.T) {
	var r Rules
	c := r.Clone()
	if c == nil {
		t.Error("Clone() of nil rules = nil, want empty map")
	}
}

func TestManifestExternal(t *testing.T) {
	tests := []struct {
		id       string
		external bool
	}{
		{"components/auth", false},
		{"vendor/acme/router", true},
		{"vendor/php", true},
		{"vendors/x", false},
		{"vendor", false},
	}

	for _, tt := range tests {
		m := &Manifest{Identifier: tt.id}
		if got := m.External(); got != tt.external {
			t.Errorf("External(%q) = %v, want %v", tt.id, got, tt.external)
		}
	}
}
