// Package autoload generates the per-component loader artifact.
//
// The build orchestrator hands each target's manifest data and resolved
// dependency set to a Generator. The default MapGenerator writes a JSON
// autoload map into the target's vendor directory; runtime loaders consume
// the map to locate source files for the component and all its dependencies.
package autoload

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/fiddler-build/fiddler/pkg/errors"
	"github.com/fiddler-build/fiddler/pkg/manifest"
)

// ArtifactName is the default file name of the generated autoload map,
// written under "<target path>/vendor/fiddler/".
const ArtifactName = "autoload.json"

// Target describes one buildable component handed to the generator.
type Target struct {
	Identifier  string         // Component identifier
	Path        string         // Component directory, relative to the project root
	Autoload    manifest.Rules // Production autoload rules
	AutoloadDev manifest.Rules // Development autoload rules
	VendorDir   string         // Output directory: "<Path>/vendor"
}

// Generator produces a loader artifact for one build target.
// Implementations receive the resolved transitive dependency set in discovery
// order; they must not mutate the manifests.
type Generator interface {
	Generate(target Target, deps []*manifest.Manifest, devMode, optimize bool) error
}

// MapGenerator is the default Generator. It writes a JSON document mapping
// each package (the target first, then its dependencies) to its path and
// autoload rules.
type MapGenerator struct {
	Root     string // Project root; artifact paths are resolved against it
	Artifact string // Artifact file name (default: ArtifactName)
}

// autoloadMap is the serialized artifact.
type autoloadMap struct {
	Target   string         `json:"target"`
	DevMode  bool           `json:"dev-mode"`
	Packages []packageRules `json:"packages"`
}

type packageRules struct {
	Name  string         `json:"name"`
	Path  string         `json:"path"`
	Rules manifest.Rules `json:"rules"`
}

// Generate writes the autoload map for target into target.VendorDir/fiddler/.
//
// In dev mode the target's autoload-dev rules are merged into its production
// rules (array-valued keys concatenated); outside dev mode they are dropped.
// With optimize, package entries are sorted by name and array-valued rules
// deduplicated, trading build time for a loader-friendly layout.
//
// The write is atomic: a temp file in the destination directory, then rename.
func (g *MapGenerator) Generate(target Target, deps []*manifest.Manifest, devMode, optimize bool) error {
	if err := errors.ValidatePath(target.VendorDir); err != nil {
		return err
	}

	rules := target.Autoload.Clone()
	if devMode {
		rules = rules.Merge(target.AutoloadDev)
	}

	doc := autoloadMap{
		Target:   target.Identifier,
		DevMode:  devMode,
		Packages: make([]packageRules, 0, len(deps)+1),
	}
	doc.Packages = append(doc.Packages, packageRules{
		Name:  target.Identifier,
		Path:  target.Path,
		Rules: rules,
	})
	for _, dep := range deps {
		doc.Packages = append(doc.Packages, packageRules{
			Name:  dep.Identifier,
			Path:  dep.Path,
			Rules: dep.Autoload.Clone(),
		})
	}

	if optimize {
		optimizePackages(doc.Packages)
	}

	dir := filepath.Join(g.Root, filepath.FromSlash(target.VendorDir), "fiddler")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeGenerateFailed, err, "create %s", dir)
	}

	name := g.Artifact
	if name == "" {
		name = ArtifactName
	}
	return writeAtomic(filepath.Join(dir, name), doc)
}

// optimizePackages sorts dependency entries by name (the target entry stays
// first) and deduplicates array-valued rule entries in place.
func optimizePackages(pkgs []packageRules) {
	if len(pkgs) > 1 {
		slices.SortFunc(pkgs[1:], func(a, b packageRules) int {
			if a.Name < b.Name {
				return -1
			}
			if a.Name > b.Name {
				return 1
			}
			return 0
		})
	}
	for i := range pkgs {
		for k, v := range pkgs[i].Rules {
			if arr, ok := v.([]any); ok {
				pkgs[i].Rules[k] = dedupe(arr)
			}
		}
	}
}

// dedupe returns a fresh slice: the input may share its backing array with a
// graph manifest's rules, which must stay untouched.
func dedupe(arr []any) []any {
	seen := make(map[string]bool, len(arr))
	out := make([]any, 0, len(arr))
	for _, v := range arr {
		key, hashable := v.(string)
		if !hashable {
			out = append(out, v)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func writeAtomic(path string, doc autoloadMap) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(errors.ErrCodeGenerateFailed, err, "create %s", tmp)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeGenerateFailed, err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeGenerateFailed, err, "close %s", tmp)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeGenerateFailed, err, "write %s", path)
	}
	return nil
}
