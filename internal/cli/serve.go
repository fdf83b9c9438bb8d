package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/classmap/classmap/pkg/cache"
	"github.com/classmap/classmap/pkg/factfile"
)

// maxFactsBody bounds the request body size accepted by the render
// endpoint.
const maxFactsBody = 16 << 20 // 16 MiB

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr         string
	cacheBackend string // "none", "file" or "redis"
	cacheDir     string
	redisAddr    string
	ttl          time.Duration
}

// newServeCmd creates the serve command: a small HTTP service that
// renders posted facts documents. Rendering is deterministic, so
// responses are cached under a hash of the body and the options.
func newServeCmd() *cobra.Command {
	opts := serveOpts{
		addr:         ":8080",
		cacheBackend: "none",
		cacheDir:     ".classmap-cache",
		redisAddr:    "localhost:6379",
		ttl:          24 * time.Hour,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagram rendering over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", opts.cacheBackend, "response cache backend: none, file, redis")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", opts.cacheDir, "directory for the file cache backend")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "address for the redis cache backend")
	cmd.Flags().DurationVar(&opts.ttl, "cache-ttl", opts.ttl, "response cache TTL")

	return cmd
}

// newCache creates the configured cache backend.
func newCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	switch opts.cacheBackend {
	case "none":
		return cache.NewNullCache(), nil
	case "file":
		return cache.NewFileCache(opts.cacheDir)
	case "redis":
		return cache.NewRedisCache(ctx, opts.redisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want none, file or redis)", opts.cacheBackend)
	}
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := newCache(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &renderServer{store: store, ttl: opts.ttl, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/render", srv.handleRender)

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()
	logger.Info("Serving", "addr", opts.addr, "cache", opts.cacheBackend)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// renderServer handles render requests against a shared cache.
type renderServer struct {
	store  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// handleRender renders the posted facts document. Query parameters:
// format (default mmd), diagram (default class), filter (default
// public), title.
func (s *renderServer) handleRender(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFactsBody))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	format := valueOr(q.Get("format"), "mmd")
	level := valueOr(q.Get("diagram"), diagramClass)
	filterMode := valueOr(q.Get("filter"), "public")
	title := valueOr(q.Get("title"), "classmap")

	if level != diagramClass && level != diagramPackage {
		http.Error(w, fmt.Sprintf("unknown diagram level %q", level), http.StatusBadRequest)
		return
	}
	filter, err := filterFor(filterMode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := cache.Key("render", string(body), format, level, filterMode, title)
	if data, ok, err := s.store.Get(r.Context(), key); err == nil && ok {
		s.logger.Debug("render cache hit", "id", id, "format", format)
		writeRendered(w, format, data)
		return
	} else if err != nil {
		s.logger.Warn("render cache read failed", "id", id, "error", err)
	}

	facts, err := factfile.Read(bytes.NewReader(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := renderDiagram(r.Context(), facts, level, format, title, filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.Set(r.Context(), key, data, s.ttl); err != nil {
		s.logger.Warn("render cache write failed", "id", id, "error", err)
	}
	s.logger.Debug("rendered", "id", id, "format", format, "diagram", level, "bytes", len(data))
	writeRendered(w, format, data)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func writeRendered(w http.ResponseWriter, format string, data []byte) {
	contentType := "text/plain; charset=utf-8"
	switch format {
	case formatSVG:
		contentType = "image/svg+xml"
	case "html":
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
