package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

// spinner redraws a single status line while a blocking step runs. The line
// carries a fixed label and, when status is set, its latest value, so long
// layouts show how far the simulation has got.
type spinner struct {
	out      io.Writer
	label    string
	status   func() string
	interval time.Duration

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	started atomic.Bool
	exited  chan struct{}

	mu    sync.Mutex
	drawn int // visible width of the last line written
}

// newSpinner returns a spinner writing to out that stops on its own when ctx
// is done. It does not draw until start is called.
func newSpinner(ctx context.Context, out io.Writer, label string, status func() string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		out:      out,
		label:    label,
		status:   status,
		interval: spinnerInterval,
		parent:   ctx,
		ctx:      sctx,
		cancel:   cancel,
		exited:   make(chan struct{}),
	}
}

// start launches the animation and returns s.
func (s *spinner) start() *spinner {
	s.started.Store(true)
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.exited)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) line(frame string) string {
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.label)
	if s.status != nil {
		if st := s.status(); st != "" {
			line += " " + StyleNumber.Render(st)
		}
	}
	return line
}

func (s *spinner) draw(frame string) {
	line := s.line(frame)
	w := lipgloss.Width(line)

	s.mu.Lock()
	defer s.mu.Unlock()
	pad := ""
	if w < s.drawn {
		pad = strings.Repeat(" ", s.drawn-w)
	}
	fmt.Fprintf(s.out, "\r%s%s", line, pad)
	s.drawn = max(s.drawn, w)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.drawn))
	s.drawn = 0
}

// stop ends the animation and clears the line. It is safe to call more
// than once and before start.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.exited
		}
		s.clear()
	})
}

// fail stops the spinner and reports msg as an error line.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}

// interrupted reports whether the context the spinner was created with is
// done, as opposed to the spinner being stopped by its caller.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}

// tickStatus renders a layout tick counter for a spinner status line.
func tickStatus(ticks *atomic.Int64) func() string {
	return func() string {
		n := ticks.Load()
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("tick %d", n)
	}
}
