// Package pkg provides the core libraries for the fiddler build tool.
//
// # Overview
//
// Fiddler turns a tree of component manifests into per-component autoload
// maps. The pkg directory is organized by pipeline stage:
//
//  1. [manifest] - fiddler.json discovery, schema validation, rule merging
//  2. [composer] - vendor/composer/installed.json ingestion
//  3. [graph] - the unified package graph and DOT/SVG rendering
//  4. [resolver] - transitive dependency closure walks
//  5. [autoload] - artifact generation
//  6. [build] - orchestration of scan → resolve → generate
//
// Supporting packages: [config] (fiddler.toml), [errors] (structured error
// codes), [observability] (build hooks), [buildinfo] (version stamping).
//
// # Data flow
//
//	fiddler.json + installed.json
//	         ↓
//	    [manifest] / [composer] (load and validate)
//	         ↓
//	    [graph] (one identifier-keyed package graph)
//	         ↓
//	    [resolver] (closure per buildable component)
//	         ↓
//	    [autoload] (vendor/fiddler/autoload.json per component)
package pkg
