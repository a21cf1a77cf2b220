// Package config loads the optional fiddler.toml project configuration.
//
// The file lives at the project root and holds defaults for the build
// command; command-line flags always win over file values.
//
//	optimize = true
//	no-dev = true
//	exclude = ["node_modules", "tmp"]
//	artifact = "loader.json"
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/fiddler-build/fiddler/pkg/errors"
)

// Filename is the configuration file name searched at the project root.
const Filename = "fiddler.toml"

// Config holds project-level build defaults.
type Config struct {
	Optimize bool     `toml:"optimize"`
	NoDev    bool     `toml:"no-dev"`
	Exclude  []string `toml:"exclude" validate:"dive,required"`
	Artifact string   `toml:"artifact"`
}

var validate = validator.New()

// Load reads <root>/fiddler.toml. A missing file yields the zero Config and
// no error; a malformed or invalid file is an INVALID_CONFIG error.
func Load(root string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(root, Filename))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", Filename)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", Filename)
	}

	if err := validate.Struct(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", Filename)
	}

	// Exclude entries and the artifact name are bare names, not paths.
	for _, name := range cfg.Exclude {
		if strings.ContainsAny(name, `/\`) {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig,
				"invalid %s: exclude entry %q cannot contain path separators", Filename, name)
		}
	}
	if strings.ContainsAny(cfg.Artifact, `/\`) {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"invalid %s: artifact %q cannot contain path separators", Filename, cfg.Artifact)
	}

	return cfg, nil
}
