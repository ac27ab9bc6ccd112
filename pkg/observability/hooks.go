// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about catalog loads, scope changes, layout runs, style
// fallbacks and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries. The prom subpackage
// provides a Prometheus-backed implementation of every interface.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetLayoutHooks(m)
//	    observability.SetStyleHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnRunStart(gen, nodeCount)
//	// ... tick until settled ...
//	observability.Layout().OnRunEnd(gen, state, ticks, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from graph sessions.
type SessionHooks interface {
	// OnLoad records a catalog fetch for a grouping mode.
	OnLoad(ctx context.Context, mode string, nodeCount int, duration time.Duration, err error)

	// OnScopeChange records a new active scope.
	OnScopeChange(rootID string, nodeCount int)

	// OnActivate records a node activation. found is false for unknown IDs.
	OnActivate(nodeID string, found bool)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the force layout engine.
type LayoutHooks interface {
	// OnRunStart records the start of a simulation run.
	OnRunStart(generation uint64, nodeCount int)

	// OnRunEnd records a run leaving the running state. state is one of
	// "converged", "stopped" or "superseded".
	OnRunEnd(generation uint64, state string, ticks int, duration time.Duration)
}

// =============================================================================
// Style Hooks
// =============================================================================

// StyleHooks receives events from the style resolver.
type StyleHooks interface {
	// OnLookupMiss records a fallback to a default style value.
	OnLookupMiss(tier, property, key string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnLoad(context.Context, string, int, time.Duration, error) {}
func (NoopSessionHooks) OnScopeChange(string, int)                                 {}
func (NoopSessionHooks) OnActivate(string, bool)                                   {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnRunStart(uint64, int)                      {}
func (NoopLayoutHooks) OnRunEnd(uint64, string, int, time.Duration) {}

// NoopStyleHooks is a no-op implementation of StyleHooks.
type NoopStyleHooks struct{}

func (NoopStyleHooks) OnLookupMiss(string, string, string) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks SessionHooks = NoopSessionHooks{}
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	styleHooks   StyleHooks   = NoopStyleHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before any sessions exist.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStyleHooks registers custom style hooks.
func SetStyleHooks(h StyleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		styleHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Style returns the registered style hooks.
func Style() StyleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return styleHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
	layoutHooks = NoopLayoutHooks{}
	styleHooks = NoopStyleHooks{}
	httpHooks = NoopHTTPHooks{}
}
