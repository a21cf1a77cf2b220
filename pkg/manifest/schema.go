package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/fiddler-build/fiddler/pkg/errors"
)

// Schema validates raw fiddler.json documents against the fixed manifest
// schema and normalizes missing optional fields. It is a value, not shared
// process state: construct one with NewSchema and pass it to the loader.
//
// The schema is deliberately small:
//
//	autoload      object   (optional, default {})
//	autoload-dev  object   (optional, default {})
//	deps          []string (optional, default [])
//
// Unknown top-level fields are ignored.
type Schema struct {
	fields map[string]fieldCheck
}

type fieldCheck func(raw json.RawMessage) (any, string)

// NewSchema returns the fiddler.json manifest schema.
func NewSchema() *Schema {
	return &Schema{
		fields: map[string]fieldCheck{
			"autoload":     checkRules,
			"autoload-dev": checkRules,
			"deps":         checkDeps,
		},
	}
}

// Validate parses data as a manifest document and returns the normalized
// field values. Every schema violation is collected, and the returned error
// aggregates all of them; origin names the offending file for diagnostics.
func (s *Schema) Validate(origin string, data []byte) (autoload, autoloadDev Rules, deps []string, err error) {
	var doc map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if decErr := dec.Decode(&doc); decErr != nil {
		return nil, nil, nil, errors.Wrap(errors.ErrCodeInvalidManifest, decErr, "invalid manifest at %s", origin)
	}
	// A bare JSON null decodes into a nil map without error.
	if doc == nil {
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidManifest,
			"invalid manifest at %s: document must be an object", origin)
	}

	var violations []string
	values := make(map[string]any, len(s.fields))
	for name, check := range s.fields {
		raw, ok := doc[name]
		if !ok {
			continue
		}
		v, msg := check(raw)
		if msg != "" {
			violations = append(violations, fmt.Sprintf("%s: %s", name, msg))
			continue
		}
		values[name] = v
	}

	if len(violations) > 0 {
		// Stable report order regardless of map iteration.
		slices.Sort(violations)
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidManifest,
			"invalid manifest at %s: %s", origin, strings.Join(violations, "; "))
	}

	autoload = rulesOrEmpty(values["autoload"])
	autoloadDev = rulesOrEmpty(values["autoload-dev"])
	deps = depsOrEmpty(values["deps"])
	return autoload, autoloadDev, deps, nil
}

func checkRules(raw json.RawMessage) (any, string) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, "must be an object"
	}
	return Rules(m), ""
}

func checkDeps(raw json.RawMessage) (any, string) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "must be an array of strings"
	}
	deps := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Sprintf("element %d must be a string", i)
		}
		deps = append(deps, s)
	}
	return deps, ""
}

func rulesOrEmpty(v any) Rules {
	if r, ok := v.(Rules); ok && r != nil {
		return r
	}
	return Rules{}
}

func depsOrEmpty(v any) []string {
	if d, ok := v.([]string); ok && d != nil {
		return d
	}
	return []string{}
}
