// Package build runs the scan → resolve → generate pipeline.
//
// This package implements the complete build flow shared by the CLI and any
// embedding program: discover component manifests, merge externally installed
// packages, assemble the package graph, resolve each buildable component's
// transitive dependency closure, and emit its autoload artifact.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := build.NewRunner(nil, logger)
//	result, err := runner.Execute(ctx, root, build.Options{DevMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
package build

import (
	"context"
	"path"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fiddler-build/fiddler/pkg/autoload"
	"github.com/fiddler-build/fiddler/pkg/composer"
	"github.com/fiddler-build/fiddler/pkg/errors"
	"github.com/fiddler-build/fiddler/pkg/graph"
	"github.com/fiddler-build/fiddler/pkg/manifest"
	"github.com/fiddler-build/fiddler/pkg/observability"
	"github.com/fiddler-build/fiddler/pkg/resolver"
)

// Options contains all configuration for a build run.
type Options struct {
	// DevMode merges each target's autoload-dev rules into its artifact.
	DevMode bool

	// Optimize sorts and deduplicates artifact entries.
	Optimize bool

	// Exclude lists additional directory names skipped during the scan.
	Exclude []string

	// Artifact overrides the artifact file name (default: autoload.json).
	Artifact string
}

// Stats contains timing and size information for a build run.
type Stats struct {
	LocalCount    int
	ExternalCount int
	ScanTime      time.Duration
	BuildTime     time.Duration
}

// Result contains the outputs of a build run.
type Result struct {
	// Graph is the assembled package graph.
	Graph *graph.PackageGraph

	// Targets lists the identifiers built, in discovery order.
	Targets []string

	// Stats contains timing and size information.
	Stats Stats
}

// Runner executes the build pipeline. It is stateless except for the
// generator and logger; multiple goroutines can safely share one Runner
// for different roots.
type Runner struct {
	Generator autoload.Generator
	Logger    *log.Logger
}

// NewRunner creates a runner with the given generator. If gen is nil, each
// run uses a MapGenerator rooted at the scanned project. If logger is nil,
// the default logger is used.
func NewRunner(gen autoload.Generator, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Generator: gen, Logger: logger}
}

// Execute runs the complete scan → resolve → generate pipeline for every
// buildable component under root. The first failure aborts the run.
func (r *Runner) Execute(ctx context.Context, root string, opts Options) (*Result, error) {
	result := &Result{}

	scanStart := time.Now()
	g, stats, err := r.scanWithHooks(ctx, root, opts)
	result.Stats = stats
	result.Stats.ScanTime = time.Since(scanStart)
	if err != nil {
		return nil, err
	}
	result.Graph = g

	r.Logger.Info("scanned project",
		"local", result.Stats.LocalCount,
		"external", result.Stats.ExternalCount,
		"duration", result.Stats.ScanTime)

	buildStart := time.Now()
	gen := r.Generator
	if gen == nil {
		gen = &autoload.MapGenerator{Root: root, Artifact: opts.Artifact}
	}

	for _, id := range g.Targets() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.buildTarget(ctx, g, gen, id, opts); err != nil {
			return nil, err
		}
		result.Targets = append(result.Targets, id)
	}
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("build complete",
		"targets", len(result.Targets),
		"duration", result.Stats.BuildTime)

	return result, nil
}

// Scan discovers local manifests and externally installed packages under
// root and assembles the package graph without building anything.
func (r *Runner) Scan(ctx context.Context, root string, opts Options) (*graph.PackageGraph, error) {
	g, _, err := r.scanWithHooks(ctx, root, opts)
	return g, err
}

func (r *Runner) scanWithHooks(ctx context.Context, root string, opts Options) (*graph.PackageGraph, Stats, error) {
	hooks := observability.Build()
	start := time.Now()
	hooks.OnScanStart(ctx, root)

	g, stats, err := r.scan(ctx, root, opts)
	hooks.OnScanComplete(ctx, root, stats.LocalCount, stats.ExternalCount, time.Since(start), err)
	return g, stats, err
}

// scan loads local manifests and the installed-package index and registers
// both in one graph. Local components register first; an external
// registration whose identifier collides with an existing entry is skipped,
// so project-local definitions always win.
func (r *Runner) scan(ctx context.Context, root string, opts Options) (*graph.PackageGraph, Stats, error) {
	var stats Stats

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	loader := manifest.NewLoader(manifest.NewSchema(), opts.Exclude...)
	locals, err := loader.Load(root)
	if err != nil {
		return nil, stats, err
	}

	regs, err := composer.LoadInstalled(root)
	if err != nil {
		return nil, stats, err
	}

	g := graph.New()
	for _, m := range locals {
		if err := g.Add(m.Identifier, m); err != nil {
			return nil, stats, err
		}
	}
	stats.LocalCount = len(locals)

	for _, reg := range regs {
		if _, ok := g.Lookup(reg.Identifier); ok {
			r.Logger.Debug("skipping installed package, identifier already registered",
				"identifier", reg.Identifier)
			continue
		}
		if err := g.Add(reg.Identifier, reg.Manifest); err != nil {
			return nil, stats, err
		}
		stats.ExternalCount++
	}

	return g, stats, nil
}

// buildTarget resolves one component's dependency closure and writes its
// autoload artifact.
func (r *Runner) buildTarget(ctx context.Context, g *graph.PackageGraph, gen autoload.Generator, id string, opts Options) error {
	hooks := observability.Build()

	m, ok := g.Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeInternal, "target '%s' vanished from the graph", id)
	}

	r.Logger.Info("building component", "identifier", id)

	resolveStart := time.Now()
	hooks.OnResolveStart(ctx, id)
	set, err := resolver.Resolve(g, id)
	depCount := 0
	if set != nil {
		depCount = set.Len()
	}
	hooks.OnResolveComplete(ctx, id, depCount, time.Since(resolveStart), err)
	if err != nil {
		return err
	}

	r.Logger.Debug("resolved dependencies",
		"identifier", id,
		"count", set.Len(),
		"duration", time.Since(resolveStart))

	// path.Join cleans the root component's "." prefix to a bare "vendor".
	target := autoload.Target{
		Identifier:  id,
		Path:        m.Path,
		Autoload:    m.Autoload,
		AutoloadDev: m.AutoloadDev,
		VendorDir:   path.Join(m.Path, "vendor"),
	}

	genStart := time.Now()
	hooks.OnGenerateStart(ctx, id)
	err = gen.Generate(target, set.Manifests(), opts.DevMode, opts.Optimize)
	hooks.OnGenerateComplete(ctx, id, time.Since(genStart), err)
	return err
}
