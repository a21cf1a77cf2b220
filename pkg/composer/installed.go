// Package composer adapts composer's installed-package index into fiddler
// manifests.
//
// The package manager writes vendor/composer/installed.json when it installs
// dependencies. Each installed package is converted into the same normalized
// manifest shape as a local fiddler.json, namespaced under "vendor/" so
// external identifiers never collide with local component paths.
package composer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/fiddler-build/fiddler/pkg/errors"
	"github.com/fiddler-build/fiddler/pkg/manifest"
)

// InstalledPath is the index location relative to the project root.
const InstalledPath = "vendor/composer/installed.json"

// Registration binds one graph identifier to a manifest. A single installed
// package yields one registration for its own name and one per replaced name,
// all pointing at the same manifest value, so a component may depend on either
// the original or the replacement identifier and resolve to one instance.
type Registration struct {
	Identifier string
	Manifest   *manifest.Manifest
}

// installedEntry mirrors one package object in installed.json. Version
// constraints in require/replace are carried by the index but discarded here:
// only the presence of a name matters for graph construction.
type installedEntry struct {
	Name        string            `json:"name" validate:"required"`
	Autoload    manifest.Rules    `json:"autoload"`
	AutoloadDev manifest.Rules    `json:"autoload-dev"`
	Require     map[string]string `json:"require"`
	Replace     map[string]string `json:"replace"`
}

// installedIndex covers both index shapes composer has shipped: a bare array
// (composer 1) and an object wrapping the array under "packages" (composer 2).
type installedIndex struct {
	Packages []installedEntry `json:"packages"`
}

var validate = validator.New()

// LoadInstalled reads <root>/vendor/composer/installed.json and converts each
// installed package into manifest registrations.
//
// A missing index contributes nothing and is not an error: a project without
// installed external packages is perfectly buildable. An unparseable index is
// an INVALID_MANIFEST error.
func LoadInstalled(root string) ([]Registration, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(InstalledPath)))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read installed-package index")
	}

	entries, err := decodeIndex(data)
	if err != nil {
		return nil, err
	}

	var regs []Registration
	for _, e := range entries {
		if err := validate.Struct(&e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid installed-package index")
		}
		regs = append(regs, convert(e)...)
	}
	return regs, nil
}

func decodeIndex(data []byte) ([]installedEntry, error) {
	var entries []installedEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}
	var idx installedIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid installed-package index")
	}
	return idx.Packages, nil
}

// convert synthesizes the manifest for one installed package and registers it
// under its own identifier plus every replaced identifier.
func convert(e installedEntry) []Registration {
	id := "vendor/" + e.Name

	// Dev rules merge into production rules: array-valued keys concatenate,
	// they never overwrite.
	autoload := e.Autoload.Clone().Merge(e.AutoloadDev)

	// Require keys become pseudo-dependencies under the vendor namespace.
	// Sorted so the manifest's dependency order is deterministic even though
	// the index stores requirements as an object.
	deps := make([]string, 0, len(e.Require))
	for name := range e.Require {
		deps = append(deps, "vendor/"+name)
	}
	slices.Sort(deps)

	m := &manifest.Manifest{
		Identifier:  id,
		Path:        id,
		Autoload:    autoload,
		AutoloadDev: manifest.Rules{},
		Deps:        deps,
	}

	regs := []Registration{{Identifier: id, Manifest: m}}

	replaced := make([]string, 0, len(e.Replace))
	for name := range e.Replace {
		replaced = append(replaced, "vendor/"+name)
	}
	slices.Sort(replaced)
	for _, alias := range replaced {
		regs = append(regs, Registration{Identifier: alias, Manifest: m})
	}
	return regs
}
