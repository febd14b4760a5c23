package coachhttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/programme-lv/cfcoach/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestLogger puts a logger tagged with a request id into the request
// context. An incoming X-Request-Id is reused when it parses as a UUID.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.Header.Get(requestIDHeader))
			if err != nil {
				id = uuid.New()
			}
			w.Header().Set(requestIDHeader, id.String())

			ctx := logger.WithLogger(r.Context(), base)
			ctx = logger.WithRequestID(ctx, id.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type endpointStats struct {
	count     int
	totalTime time.Duration
}

// StatsLogger aggregates request counts and latency per route and logs a
// summary every flush interval.
type StatsLogger struct {
	mu            sync.Mutex
	stats         map[string]*endpointStats
	flushInterval time.Duration
	log           *slog.Logger
}

func NewStatsLogger(log *slog.Logger, flushInterval time.Duration) *StatsLogger {
	return &StatsLogger{
		stats:         make(map[string]*endpointStats),
		flushInterval: flushInterval,
		log:           log,
	}
}

// Run flushes periodically until stop is closed.
func (sl *StatsLogger) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(sl.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sl.Flush()
		case <-stop:
			sl.Flush()
			return
		}
	}
}

func (sl *StatsLogger) Flush() {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	for endpoint, stats := range sl.stats {
		if stats.count == 0 {
			continue
		}
		avgTimeMs := float64(stats.totalTime.Microseconds()) / float64(stats.count) / 1000.0
		sl.log.Info("endpoint stats",
			"endpoint", endpoint,
			"count", stats.count,
			"avg_time_ms", fmt.Sprintf("%.2f", avgTimeMs),
			"period", sl.flushInterval,
		)
		stats.count = 0
		stats.totalTime = 0
	}
}

func (sl *StatsLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		duration := time.Since(start)
		sl.record(routeOf(r), duration)
	})
}

func (sl *StatsLogger) record(endpoint string, d time.Duration) {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	s, ok := sl.stats[endpoint]
	if !ok {
		s = &endpointStats{}
		sl.stats[endpoint] = s
	}
	s.count++
	s.totalTime += d
}

// routeOf prefers the chi route pattern so that every handle does not get
// its own line.
func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return r.Method + " " + pattern
		}
	}
	return r.Method + " " + r.URL.Path
}
