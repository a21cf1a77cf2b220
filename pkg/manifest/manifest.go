// Package manifest defines the normalized component manifest and the loader
// that discovers fiddler.json files across a project tree.
//
// A manifest describes one buildable component: its identifier, filesystem
// path, autoload rules, and declared dependencies. Local components are
// identified by their directory path relative to the project root; external
// packages (see the composer package) are namespaced under "vendor/".
package manifest

import (
	"maps"
	"slices"
	"strings"
)

// ManifestFilename is the file name the loader searches for.
const ManifestFilename = "fiddler.json"

// Rules holds autoload rules as an opaque mapping. The structure mirrors
// composer autoload sections (e.g. "psr-4" -> {prefix: dir}, "files" -> [..]):
// fiddler never interprets the rules, it only merges and forwards them to the
// autoload generator.
type Rules map[string]any

// Clone returns a deep-enough copy of the rules: the top-level map and any
// array-valued entries are copied, nested objects are shallow-copied.
func (r Rules) Clone() Rules {
	if r == nil {
		return Rules{}
	}
	out := make(Rules, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		return slices.Clone(val)
	case map[string]any:
		return maps.Clone(val)
	default:
		return v
	}
}

// Merge combines other into r and returns the result without mutating either.
// Array-valued keys are concatenated, map-valued keys are merged key-by-key,
// and scalar keys from other win. This is the dev-autoload merge semantic:
// dev rules append to production rules rather than replace them.
//
// Values adopted from other are copied, never aliased, so later edits to the
// merged result cannot reach back into either input.
func (r Rules) Merge(other Rules) Rules {
	out := r.Clone()
	for k, v := range other {
		existing, ok := out[k]
		if !ok {
			out[k] = cloneValue(v)
			continue
		}
		switch ev := existing.(type) {
		case []any:
			if ov, ok := v.([]any); ok {
				out[k] = append(slices.Clone(ev), ov...)
				continue
			}
		case map[string]any:
			if ov, ok := v.(map[string]any); ok {
				merged := maps.Clone(ev)
				maps.Copy(merged, ov)
				out[k] = merged
				continue
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}

// Manifest is the normalized description of one component.
//
// Identifier is unique within a package graph: for local components it is the
// manifest's directory path relative to the project root, for external
// packages it is "vendor/<name>". Missing optional manifest fields are
// normalized to empty values, so Autoload, AutoloadDev, and Deps are never nil.
type Manifest struct {
	Identifier  string   // Unique id within the graph (map key)
	Path        string   // Component directory, relative to the project root
	Autoload    Rules    // Production autoload rules
	AutoloadDev Rules    // Development autoload rules
	Deps        []string // Declared dependency identifiers, in file order
}

// External reports whether the manifest describes an external package.
// Any identifier under the "vendor/" prefix is treated as external: the prefix
// is a reserved namespace, so a local component directory named vendor/ would
// shadow into it and never be built as a target.
func (m *Manifest) External() bool {
	return IsVendorIdentifier(m.Identifier)
}

// IsVendorIdentifier reports whether id lives in the reserved "vendor/"
// namespace used for external packages and environment markers.
func IsVendorIdentifier(id string) bool {
	return strings.HasPrefix(id, vendorPrefix)
}

const (
	vendorPrefix = "vendor/"

	// platformMarker is the runtime platform pseudo-dependency.
	platformMarker = "vendor/php"
	// extensionMarkerPrefix marks runtime extension requirements (ext-json, ...).
	extensionMarkerPrefix = "vendor/ext-"
	// libraryMarkerPrefix marks linked system libraries (lib-curl, ...).
	libraryMarkerPrefix = "vendor/lib-"
)

// IsEnvironmentMarker reports whether id denotes a runtime capability rather
// than a buildable component. Markers have no manifest and are skipped
// silently during resolution.
func IsEnvironmentMarker(id string) bool {
	return id == platformMarker ||
		strings.HasPrefix(id, extensionMarkerPrefix) ||
		strings.HasPrefix(id, libraryMarkerPrefix)
}
