package coachhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/cfcoach/tracing"
)

type ServerOptions struct {
	Env         string
	CorsOrigins []string
	Logger      *slog.Logger
	// StatsFlushInterval of zero disables the endpoint summary.
	StatsFlushInterval time.Duration
}

type HttpServer struct {
	router *chi.Mux
	stats  *StatsLogger
}

func NewHttpServer(handler *CoachHttpHandler, opts ServerOptions) *HttpServer {
	router := chi.NewRouter()

	reqLogger := httplog.NewLogger("cfcoach", httplog.Options{
		JSON:             opts.Env != "dev",
		LogLevel:         slog.LevelInfo,
		Concise:          true,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": opts.Env,
		},
		QuietDownRoutes: []string{"/healthz"},
		QuietDownPeriod: time.Minute,
	})
	router.Use(httplog.RequestLogger(reqLogger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         3000,
	}))

	router.Use(tracing.NewMiddleware("cfcoach").Handler)
	router.Use(RequestLogger(opts.Logger))

	server := &HttpServer{router: router}
	if opts.StatsFlushInterval > 0 {
		server.stats = NewStatsLogger(opts.Logger, opts.StatsFlushInterval)
		router.Use(server.stats.Middleware)
	}

	handler.RegisterRoutes(router)
	return server
}

func (s *HttpServer) Handler() http.Handler {
	return s.router
}

// Start serves on address until ctx is cancelled, then drains in-flight
// requests.
func (s *HttpServer) Start(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan struct{})
	defer close(stop)
	if s.stats != nil {
		go s.stats.Run(stop)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
