// Package server exposes the translator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/anglify"
	"github.com/ZaguanLabs/anglify/cache"
	"github.com/ZaguanLabs/anglify/config"
)

// readHeaderTimeout bounds slow clients sending headers.
const readHeaderTimeout = 5 * time.Second

// Server is the anglify HTTP service.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	dicts      *anglify.DictionarySet
	cache      cache.TranslationCache
	translator *anglify.Translator
	limiter    *RateLimiter
	handler    http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCache replaces the cache built from the configuration.
func WithCache(c cache.TranslationCache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// New builds a Server: it loads the dictionaries, connects the cache and
// restores the cache snapshot if one is configured.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	dicts, err := anglify.LoadDictionaries(cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("loading dictionaries: %w", err)
	}
	s.dicts = dicts
	s.logger.Info().
		Str("revision", dicts.Revision()).
		Int("entries", dicts.Size()).
		Str("path", cfg.Dictionary.Path).
		Msg("Dictionaries loaded")

	if s.cache == nil {
		c, err := cache.New(ctx, cache.Options{
			Backend:    cfg.Cache.Backend,
			TTL:        cfg.Cache.TTL,
			MaxEntries: cfg.Cache.MaxEntries,
			RedisURL:   cfg.Cache.RedisURL,
			KeyPrefix:  cfg.Cache.KeyPrefix,
			Retry:      s.retryConfig(),
		})
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}
		s.cache = c
	}
	s.logger.Info().Str("backend", cfg.Cache.Backend).Int("ttl", cfg.Cache.TTL).Msg("Cache ready")

	s.loadSnapshot()

	var topts []anglify.TranslatorOption
	if s.cache != nil {
		topts = append(topts, anglify.WithCache(s.cache))
	}
	s.translator = anglify.NewTranslator(dicts, topts...)

	if cfg.RateLimit.Enabled {
		s.limiter = NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Translator returns the server's translator.
func (s *Server) Translator() *anglify.Translator {
	return s.translator
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	translate := http.Handler(NewTranslateHandler(s.translator, s.cfg.Server.MaxBodyBytes))
	if s.limiter != nil {
		translate = s.limiter.Middleware(translate)
	}
	mux.Handle("POST /api/translate", translate)

	health := NewHealthHandler(s.cache)
	mux.HandleFunc("GET /healthz", health.Live)
	mux.HandleFunc("GET /readyz", health.Ready)
	mux.HandleFunc("GET /api/version", versionHandler(s.dicts))

	mws := []Middleware{
		RequestID,
		Logger(s.logger),
		Recovery(s.logger),
		CORS(s.cfg.CORS),
	}
	if !s.cfg.Server.DisableCompression {
		mws = append(mws, Compress)
	}
	mws = append(mws, ServerTiming)

	return Chain(mws...)(mux)
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully and saves the cache snapshot.
func (s *Server) Run(ctx context.Context) error {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to start TCP listener on %v: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		IdleTimeout:       s.cfg.Server.IdleTimeout,
	}

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	go s.statsLoop(statsCtx)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", listener.Addr().String()).Msg("Listening")
		serverErrors <- httpServer.Serve(listener)
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	s.Close()
	s.logger.Info().Msg("Server exited")

	return runErr
}

// Close stops background work and saves the cache snapshot.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	s.saveSnapshot()
	if rc, ok := s.cache.(*cache.RedisCache); ok {
		_ = rc.Close()
	}
}

// memoryCache returns the in-memory cache, or nil for other backends.
func (s *Server) memoryCache() *cache.InMemoryCache {
	mc, _ := s.cache.(*cache.InMemoryCache)
	return mc
}

// loadSnapshot restores the memory cache from its snapshot file. A missing
// file is the normal first start.
func (s *Server) loadSnapshot() {
	path := s.cfg.Cache.SnapshotPath
	mc := s.memoryCache()
	if path == "" || mc == nil {
		return
	}

	result, err := cache.LoadSnapshot(path, mc, s.dicts.Revision())
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Info().Str("file", path).Msg("Cache snapshot not found, starting with an empty cache")
	case err != nil:
		s.logger.Warn().Err(err).Str("file", path).Msg("Could not load cache snapshot; starting with an empty cache")
	default:
		s.logger.Info().
			Str("file", path).
			Int("restored", result.Restored).
			Int("stale", result.Stale).
			Int("failed", result.Failed).
			Msg("Cache snapshot loaded")
	}
}

// saveSnapshot writes the memory cache to its snapshot file.
func (s *Server) saveSnapshot() {
	path := s.cfg.Cache.SnapshotPath
	mc := s.memoryCache()
	if path == "" || mc == nil {
		return
	}

	info := cache.SnapshotInfo{
		Revision: s.dicts.Revision(),
		Metadata: map[string]string{"version": anglify.FullVersion()},
	}
	if err := cache.SaveSnapshot(path, mc, info); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("Failed to save cache snapshot")
		return
	}
	s.logger.Info().Str("file", path).Int("entries", mc.Len()).Msg("Cache snapshot saved")
}

// statsLoop logs the memory-cache counters every stats interval until ctx
// is done.
func (s *Server) statsLoop(ctx context.Context) {
	mc := s.memoryCache()
	interval := s.cfg.Cache.StatsInterval
	if mc == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := mc.Stats()
			s.logger.Info().
				Int("entries", st.Entries).
				Int64("hits", st.Hits).
				Int64("misses", st.Misses).
				Int64("evictions", st.Evictions).
				Msg("Cache stats")
		}
	}
}

// retryConfig backs off the initial Redis connection and logs every retry.
func (s *Server) retryConfig() anglify.RetryConfig {
	rc := anglify.DefaultRetryConfig()
	rc.OnRetry = func(attempt int, delay time.Duration, err error) {
		s.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Cache backend not ready, retrying")
	}
	return rc
}
