package manifest

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fiddler-build/fiddler/pkg/errors"
)

// Dirs skipped during the scan regardless of configuration. The vendor tree
// belongs to the external package manager and is consumed separately through
// the installed-package index.
var skippedDirs = map[string]bool{
	"vendor": true,
	".git":   true,
	".hg":    true,
	".svn":   true,
}

// Loader discovers and parses fiddler.json manifests under a project root.
type Loader struct {
	schema  *Schema
	exclude map[string]bool
}

// NewLoader creates a Loader validating against the given schema.
// Extra directory names in exclude are skipped during the scan in addition
// to vendor/ and version-control metadata.
func NewLoader(schema *Schema, exclude ...string) *Loader {
	ex := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		ex[name] = true
	}
	return &Loader{schema: schema, exclude: ex}
}

// Load walks root and returns one Manifest per fiddler.json found, in walk
// (lexical) order. Each manifest's identifier and path are the manifest's
// directory relative to root, with forward slashes. A fiddler.json in the
// root directory itself is a valid component with identifier ".", built like
// any other; its artifacts land directly under <root>/vendor.
//
// Load fails on the first unreadable or invalid manifest; the error names the
// file and aggregates every schema violation in it. The tree is never written.
func (l *Loader) Load(root string) ([]*Manifest, error) {
	var manifests []*Manifest

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", path)
		}
		if d.IsDir() {
			if path != root && (skippedDirs[d.Name()] || l.exclude[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != ManifestFilename {
			return nil
		}

		m, err := l.parse(root, path)
		if err != nil {
			return err
		}
		manifests = append(manifests, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return manifests, nil
}

func (l *Loader) parse(root, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest at %s", path)
	}

	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "relativize %s", path)
	}
	id := filepath.ToSlash(rel)

	autoload, autoloadDev, deps, err := l.schema.Validate(filepath.ToSlash(filepath.Join(id, ManifestFilename)), data)
	if err != nil {
		return nil, err
	}

	return &Manifest{
		Identifier:  id,
		Path:        id,
		Autoload:    autoload,
		AutoloadDev: autoloadDev,
		Deps:        deps,
	}, nil
}
