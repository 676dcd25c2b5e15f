// Package service exposes the compiler over HTTP for inspection and for
// clients that cache plans remotely.  It compiles; it never executes.
package service

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler"
	"github.com/keeldb/keel/plancache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Service struct {
	config   Config
	cache    *plancache.Cache
	registry *prometheus.Registry
	handler  http.Handler
	logger   *zap.Logger
}

func New(config Config, resolver catalog.Resolver, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := prometheus.NewRegistry()
	c := compiler.New(resolver, compiler.WithLogger(logger))
	cache, err := plancache.New(c, resolver, plancache.Config{
		Size:       config.CacheSize,
		Registerer: registry,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	s := &Service{
		config:   config,
		cache:    cache,
		registry: registry,
		logger:   logger,
	}
	router := mux.NewRouter()
	router.HandleFunc("/query/compile", s.handleCompile).Methods("POST")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	router.Use(s.logRequests)
	s.handler = cors.New(cors.Options{
		AllowedOrigins: config.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST"},
	}).Handler(router)
	return s, nil
}

func (s *Service) Handler() http.Handler { return s.handler }

// ListenAndServe runs the service until ctx is canceled, then shuts down
// gracefully.
func (s *Service) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.config.Addr, Handler: s.handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("service listening", zap.String("addr", s.config.Addr))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
