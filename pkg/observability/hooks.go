// Package observability provides hooks for metrics, tracing, and logging
// without tying the core packages to a specific backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This keeps the scheduler, indexer, and filter packages dependency-free
// from any particular observability framework (Prometheus, OpenTelemetry,
// ...); the daemon/CLI entry points register hooks once at startup.
//
// # Usage
//
//	func main() {
//	    observability.SetGatherHooks(&myGatherHooks{})
//	    observability.SetIndexHooks(&myIndexHooks{})
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Gather().OnFetchStart(ctx, host, url)
//	observability.Gather().OnFetchComplete(ctx, host, url, errCode, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Gather Hooks — Component A (scheduler)
// =============================================================================

// GatherHooks receives events from the gatherer scheduler.
type GatherHooks interface {
	// OnFetchStart records a worker beginning a download.
	OnFetchStart(ctx context.Context, host, url string)

	// OnFetchComplete records a finished fetch (§7 user-visible log line).
	OnFetchComplete(ctx context.Context, host, url string, errCode int, duration time.Duration)

	// OnHostBackoff records a host entering extended backoff (rec_err_dly2).
	OnHostBackoff(ctx context.Context, host string, delay time.Duration)

	// OnQueueDrop records a URL dropped at enqueue time (quota or dup).
	OnQueueDrop(ctx context.Context, host, url, reason string)
}

// =============================================================================
// Index Hooks — Component B (indexer pipeline)
// =============================================================================

// IndexHooks receives events from indexer pipeline stages.
type IndexHooks interface {
	// OnStageStart records a pipeline stage beginning.
	OnStageStart(ctx context.Context, stage string, inputCount int)

	// OnStageComplete records a pipeline stage finishing (§7 per-stage summary).
	OnStageComplete(ctx context.Context, stage string, outputCount int, duration time.Duration, err error)

	// OnInconsistency records a dropped pipeline inconsistency (§7).
	OnInconsistency(ctx context.Context, stage, reason string)
}

// =============================================================================
// Filter Hooks — Component C (filter engine)
// =============================================================================

// FilterHooks receives events from filter engine evaluation.
type FilterHooks interface {
	// OnVerdict records a terminal accept/reject verdict.
	OnVerdict(ctx context.Context, verdict string, message string)

	// OnMissingVerdict records a run that fell off the end of the program
	// without an explicit accept/reject (§4.3 "hard error... defaulting to reject").
	OnMissingVerdict(ctx context.Context)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGatherHooks is a no-op implementation of GatherHooks.
type NoopGatherHooks struct{}

func (NoopGatherHooks) OnFetchStart(context.Context, string, string)                       {}
func (NoopGatherHooks) OnFetchComplete(context.Context, string, string, int, time.Duration) {}
func (NoopGatherHooks) OnHostBackoff(context.Context, string, time.Duration)                {}
func (NoopGatherHooks) OnQueueDrop(context.Context, string, string, string)                 {}

// NoopIndexHooks is a no-op implementation of IndexHooks.
type NoopIndexHooks struct{}

func (NoopIndexHooks) OnStageStart(context.Context, string, int)                         {}
func (NoopIndexHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}
func (NoopIndexHooks) OnInconsistency(context.Context, string, string)                    {}

// NoopFilterHooks is a no-op implementation of FilterHooks.
type NoopFilterHooks struct{}

func (NoopFilterHooks) OnVerdict(context.Context, string, string) {}
func (NoopFilterHooks) OnMissingVerdict(context.Context)          {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	gatherHooks GatherHooks = NoopGatherHooks{}
	indexHooks  IndexHooks  = NoopIndexHooks{}
	filterHooks FilterHooks = NoopFilterHooks{}
	hooksMu     sync.RWMutex
)

// SetGatherHooks registers custom gather hooks.
func SetGatherHooks(h GatherHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gatherHooks = h
	}
}

// SetIndexHooks registers custom index hooks.
func SetIndexHooks(h IndexHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		indexHooks = h
	}
}

// SetFilterHooks registers custom filter hooks.
func SetFilterHooks(h FilterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		filterHooks = h
	}
}

// Gather returns the registered gather hooks.
func Gather() GatherHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gatherHooks
}

// Index returns the registered index hooks.
func Index() IndexHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return indexHooks
}

// Filter returns the registered filter hooks.
func Filter() FilterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return filterHooks
}

// Reset restores all hooks to their no-op defaults. Primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gatherHooks = NoopGatherHooks{}
	indexHooks = NoopIndexHooks{}
	filterHooks = NoopFilterHooks{}
}
