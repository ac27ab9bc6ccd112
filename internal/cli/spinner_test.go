package cli

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastSpinner(ctx context.Context, out *bytes.Buffer, status func() string) *spinner {
	s := newSpinner(ctx, out, "Settling faculty layout...", status)
	s.interval = time.Millisecond
	return s
}

func waitDrawn(t *testing.T, s *spinner) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		drawn := s.drawn
		s.mu.Unlock()
		if drawn > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("spinner never drew")
}

func TestSpinnerShowsTickStatus(t *testing.T) {
	var out bytes.Buffer
	var ticks atomic.Int64
	ticks.Store(57)

	s := fastSpinner(context.Background(), &out, tickStatus(&ticks)).start()
	waitDrawn(t, s)
	s.stop()

	got := out.String()
	if !strings.Contains(got, "Settling faculty layout...") {
		t.Errorf("output missing label: %q", got)
	}
	if !strings.Contains(got, "tick 57") {
		t.Errorf("output missing tick status: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared on stop: %q", got)
	}
	if s.interrupted() {
		t.Error("stopped spinner reported interrupted")
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	s := fastSpinner(ctx, &out, nil).start()
	cancel()
	s.stop()

	if !s.interrupted() {
		t.Error("spinner should report interruption after its context ends")
	}
}

func TestSpinnerStop(t *testing.T) {
	tests := []struct {
		name  string
		start bool
	}{
		{"after start", true},
		{"before start", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := fastSpinner(context.Background(), &out, nil)
			if tt.start {
				s.start()
			}
			s.stop()
			s.stop()
			if tt.start {
				return
			}
			if out.Len() != 0 {
				t.Errorf("unstarted spinner wrote %q", out.String())
			}
		})
	}
}

func TestSpinnerPadsShorterLines(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(context.Background(), &out, "Rendering svg...", nil)

	s.status = func() string { return "tick 100" }
	s.draw(spinnerFrames[0])
	long := s.drawn
	s.status = func() string { return "" }
	s.draw(spinnerFrames[1])

	if s.drawn != long {
		t.Errorf("drawn = %d, want %d", s.drawn, long)
	}
	last := out.String()[strings.LastIndex(out.String(), "\r"):]
	if !strings.HasSuffix(last, "   ") {
		t.Errorf("shorter line not padded: %q", last)
	}
}

func TestTickStatus(t *testing.T) {
	var ticks atomic.Int64
	status := tickStatus(&ticks)
	if got := status(); got != "" {
		t.Errorf("status before first tick = %q, want empty", got)
	}
	ticks.Store(131)
	if got := status(); got != "tick 131" {
		t.Errorf("status = %q, want tick 131", got)
	}
}
