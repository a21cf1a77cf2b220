// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about manifest scanning, dependency
// resolution, and artifact generation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Build().OnResolveStart(ctx, target)
//	// ... resolve ...
//	observability.Build().OnResolveComplete(ctx, target, depCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from the build pipeline.
type BuildHooks interface {
	// Scan events: manifest discovery plus external index loading.
	OnScanStart(ctx context.Context, root string)
	OnScanComplete(ctx context.Context, root string, localCount, externalCount int, duration time.Duration, err error)

	// Resolve events, one pair per build target.
	OnResolveStart(ctx context.Context, target string)
	OnResolveComplete(ctx context.Context, target string, depCount int, duration time.Duration, err error)

	// Generate events, one pair per build target.
	OnGenerateStart(ctx context.Context, target string)
	OnGenerateComplete(ctx context.Context, target string, duration time.Duration, err error)
}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnScanStart(context.Context, string) {}
func (NoopBuildHooks) OnScanComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopBuildHooks) OnResolveStart(context.Context, string)                               {}
func (NoopBuildHooks) OnResolveComplete(context.Context, string, int, time.Duration, error) {}
func (NoopBuildHooks) OnGenerateStart(context.Context, string)                              {}
func (NoopBuildHooks) OnGenerateComplete(context.Context, string, time.Duration, error)     {}

var (
	buildHooks BuildHooks = NoopBuildHooks{}
	hooksMu    sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any build runs.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
}
