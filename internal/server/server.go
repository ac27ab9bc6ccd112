// Package server exposes graph sessions over HTTP.
//
// Each session is created with POST /sessions and addressed by a random ID.
// The client drives the simulation explicitly: POST /sessions/{id}/tick
// advances the active run, and every mutating endpoint returns the current
// [graph.Frame]. Sessions idle for longer than the store TTL are disposed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/courseflow/pkg/buildinfo"
	"github.com/matzehuels/courseflow/pkg/catalog"
	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/force"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/observability"
	"github.com/matzehuels/courseflow/pkg/render/nodelink"
	"github.com/matzehuels/courseflow/pkg/render/svg"
	"github.com/matzehuels/courseflow/pkg/session"
	"github.com/matzehuels/courseflow/pkg/style"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

const (
	// MaxTicksPerRequest caps the n parameter of the tick endpoint.
	MaxTicksPerRequest = 1000

	// DefaultCleanupInterval is how often Run sweeps expired sessions.
	DefaultCleanupInterval = time.Minute

	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 16
)

// Options configures a Server.
type Options struct {
	Source     session.Source    // Required
	Properties *style.Properties // Nil uses style.DefaultProperties
	Layout     force.Options
	TTL        time.Duration // Idle session lifetime; zero uses DefaultTTL
	Metrics    http.Handler  // Served at /metrics when set
	Logger     *log.Logger
}

// Server is the HTTP front end for graph sessions.
type Server struct {
	opts   Options
	store  *Store
	logger *log.Logger
}

// New creates a server. It panics if opts.Source is nil.
func New(opts Options) *Server {
	if opts.Source == nil {
		panic("server: nil source")
	}
	if opts.Properties == nil {
		opts.Properties = style.DefaultProperties()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		opts:   opts,
		store:  NewStore(opts.TTL),
		logger: opts.Logger,
	}
}

// Store returns the server's session store.
func (s *Server) Store() *Store { return s.store }

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(enableCORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
	})
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.getSession))
			r.Delete("/", s.deleteSession)
			r.Get("/frame", s.withSession(s.getFrame))
			r.Get("/svg", s.withSession(s.getSVG))
			r.Get("/dot", s.withSession(s.getDOT))
			r.Post("/load", s.withSession(s.load))
			r.Post("/tick", s.withSession(s.tick))
			r.Post("/settle", s.withSession(s.settle))
			r.Post("/activate/{node}", s.withSession(s.activate))
			r.Post("/reset", s.withSession(s.reset))
			r.Post("/up", s.withSession(s.up))
			r.Post("/gesture", s.withSession(s.gesture))
			r.Post("/fit", s.withSession(s.fit))
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, sweeping expired sessions in
// the background. All sessions are disposed on return.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	defer s.store.Close()

	go s.janitor(ctx, DefaultCleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down", "sessions", s.store.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) janitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Cleanup(); n > 0 {
				s.logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}

// =============================================================================
// Handlers
// =============================================================================

type loadRequest struct {
	Mode string `json:"mode"`
}

type sessionResponse struct {
	ID         string             `json:"id"`
	Mode       string             `json:"mode"`
	State      string             `json:"state"`
	Generation uint64             `json:"generation"`
	Transform  viewport.Transform `json:"transform"`
	Frame      graph.Frame        `json:"frame"`
}

type tickResponse struct {
	Ticks   int         `json:"ticks"`
	Running bool        `json:"running"`
	Frame   graph.Frame `json:"frame"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	mode, err := decodeMode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(s.opts.Source, session.Options{
		Properties: s.opts.Properties,
		Layout:     s.opts.Layout,
		Logger:     s.logger,
	})
	if err := sess.Load(r.Context(), mode); err != nil {
		s.writeError(w, r, err)
		return
	}

	e := s.store.Add(sess)
	s.logger.Info("Session created", "id", e.ID, "mode", mode)
	e.Lock()
	defer e.Unlock()
	writeJSON(w, http.StatusCreated, summarize(e))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSession(w http.ResponseWriter, _ *http.Request, e *Entry) {
	writeJSON(w, http.StatusOK, summarize(e))
}

func (s *Server) getFrame(w http.ResponseWriter, _ *http.Request, e *Entry) {
	writeJSON(w, http.StatusOK, e.Session.Frame())
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request, e *Entry) {
	opts := []svg.Option{svg.WithInteraction(), svg.WithTitles()}
	if r.URL.Query().Get("labels") == "false" {
		opts = append(opts, svg.WithoutLabels())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg.Render(e.Session.Frame(), opts...))
}

func (s *Server) getDOT(w http.ResponseWriter, r *http.Request, e *Entry) {
	detailed := r.URL.Query().Get("detailed") == "true"
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = io.WriteString(w, nodelink.ToDOT(e.Session.Frame(), nodelink.Options{Detailed: detailed}))
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, e *Entry) {
	mode, err := decodeMode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := e.Session.Load(r.Context(), mode); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(e))
}

func (s *Server) tick(w http.ResponseWriter, r *http.Request, e *Entry) {
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "n must be a positive integer"))
			return
		}
		n = min(v, MaxTicksPerRequest)
	}

	ticks := 0
	running := e.Session.State() == force.Running
	for ; ticks < n && running; ticks++ {
		running = e.Session.Tick()
	}
	writeJSON(w, http.StatusOK, tickResponse{Ticks: ticks, Running: running, Frame: e.Session.Frame()})
}

func (s *Server) settle(w http.ResponseWriter, r *http.Request, e *Entry) {
	ticks, err := e.Session.Settle(r.Context())
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "settle"))
		return
	}
	writeJSON(w, http.StatusOK, tickResponse{Ticks: ticks, Frame: e.Session.Frame()})
}

func (s *Server) activate(w http.ResponseWriter, r *http.Request, e *Entry) {
	id, err := url.PathUnescape(chi.URLParam(r, "node"))
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "node ID"))
		return
	}
	if err := e.Session.OnNodeActivated(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(e))
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request, e *Entry) {
	if err := e.Session.ResetToRoot(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(e))
}

func (s *Server) up(w http.ResponseWriter, r *http.Request, e *Entry) {
	if err := e.Session.Up(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(e))
}

func (s *Server) gesture(w http.ResponseWriter, r *http.Request, e *Entry) {
	var g viewport.Gesture
	if err := decodeBody(r, &g); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Session.Gesture(g))
}

func (s *Server) fit(w http.ResponseWriter, r *http.Request, e *Entry) {
	padding := 0.0
	if raw := r.URL.Query().Get("padding"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "padding must be a non-negative number"))
			return
		}
		padding = v
	}
	writeJSON(w, http.StatusOK, e.Session.Fit(padding))
}

// withSession resolves {id} and holds the entry lock for the duration of h.
func (s *Server) withSession(h func(http.ResponseWriter, *http.Request, *Entry)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.store.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		e.Lock()
		defer e.Unlock()
		h(w, r, e)
	}
}

func summarize(e *Entry) sessionResponse {
	return sessionResponse{
		ID:         e.ID,
		Mode:       string(e.Session.Mode()),
		State:      e.Session.State().String(),
		Generation: e.Session.Generation(),
		Transform:  e.Session.Transform(),
		Frame:      e.Session.Frame(),
	}
}

// =============================================================================
// Encoding
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeMode(r *http.Request) (catalog.GroupingMode, error) {
	var req loadRequest
	if err := decodeBody(r, &req); err != nil {
		return "", err
	}
	return catalog.ParseMode(req.Mode)
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := apperrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: string(code), Message: msg})
}

func statusFor(err error) (int, apperrors.Code) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
		return http.StatusNotFound, apperrors.ErrCodeSessionNotFound
	}
	code := apperrors.GetCode(err)
	switch code {
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeSessionNotFound:
		return http.StatusNotFound, code
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidConfig,
		apperrors.ErrCodeInvalidPath, apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest, code
	case apperrors.ErrCodeDataUnavailable, apperrors.ErrCodeMalformedHierarchy:
		return http.StatusUnprocessableEntity, code
	case "":
		return http.StatusInternalServerError, apperrors.ErrCodeInternal
	}
	return http.StatusInternalServerError, code
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("HTTP", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
