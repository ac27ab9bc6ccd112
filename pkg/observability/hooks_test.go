package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Session hooks
	s := NoopSessionHooks{}
	s.OnLoad(ctx, "faculty", 42, time.Second, nil)
	s.OnLoad(ctx, "bogus", 0, time.Millisecond, errors.New("unavailable"))
	s.OnScopeChange("sci", 12)
	s.OnActivate("MATH1001", true)

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnRunStart(1, 12)
	l.OnRunEnd(1, "converged", 80, time.Millisecond)

	// Style hooks
	st := NoopStyleHooks{}
	st.OnLookupMiss("detail", "node_radius", "unit")

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/sessions/{id}/frame")
	h.OnResponse(ctx, "GET", "/sessions/{id}/frame", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Style().(NoopStyleHooks); !ok {
		t.Error("Style() should return NoopStyleHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customSession := &testSessionHooks{}
	SetSessionHooks(customSession)
	if Session() != customSession {
		t.Error("SetSessionHooks should set custom hooks")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customStyle := &testStyleHooks{}
	SetStyleHooks(customStyle)
	if Style() != customStyle {
		t.Error("SetStyleHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Style().(NoopStyleHooks); !ok {
		t.Error("Reset() should restore NoopStyleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)

	// Setting nil should be ignored
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSessionHooks struct{ NoopSessionHooks }
type testLayoutHooks struct{ NoopLayoutHooks }
type testStyleHooks struct{ NoopStyleHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
