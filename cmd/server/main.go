package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/programme-lv/cfcoach/catalog"
	"github.com/programme-lv/cfcoach/cfapi"
	"github.com/programme-lv/cfcoach/coachhttp"
	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/conf"
	"github.com/programme-lv/cfcoach/recommend"
	"github.com/programme-lv/cfcoach/s3bucket"
	"github.com/programme-lv/cfcoach/tracing"
)

func main() {
	cfg, err := conf.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OtelEnabled {
		shutdown, err := tracing.Init(ctx, tracing.Config{
			ServiceName: "cfcoach",
			Environment: cfg.Env,
			Endpoint:    cfg.OtelEndpoint,
			Insecure:    cfg.OtelInsecure,
			SampleRatio: cfg.OtelSampleRatio,
		})
		if err != nil {
			log.Error("failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("error shutting down tracer provider", "error", err)
			}
		}()
	}

	cfClient := cfapi.NewClient(cfg.CfApiURL,
		cfapi.WithHTTPClient(newHTTPClient(cfg.CfRequestTimeout())),
		cfapi.WithMinInterval(cfg.CfMinInterval()),
	)
	cf := cfapi.NewBreakerClient(cfClient)

	var cacheOpts []catalog.Option
	if cfg.CatalogSnapshotBucket != "" {
		bucket, err := s3bucket.NewS3Bucket(ctx, cfg.AwsRegion, cfg.CatalogSnapshotBucket)
		if err != nil {
			log.Error("failed to create snapshot bucket client", "error", err)
			os.Exit(1)
		}
		cacheOpts = append(cacheOpts, catalog.WithSnapshotStore(
			catalog.NewS3SnapshotStore(bucket, catalog.DefaultSnapshotKey)))
	}
	problems := catalog.NewCache(cf, cfg.CatalogTTL(), cacheOpts...)

	go func() {
		if err := problems.Warm(ctx); err != nil {
			log.Warn("catalog warm-up failed", "error", err)
			return
		}
		log.Info("catalog warmed", "problems", problems.State().Problems)
	}()

	srvc := coachsrvc.NewCoachSrvc(cf,
		recommend.NewSelector(problems, cfg.CfProblemURL),
		coachsrvc.WithProblemLookup(problems, cfg.CfProblemURL),
	)

	handler := coachhttp.NewCoachHttpHandler(srvc, map[string]coachhttp.HealthProbe{
		"catalog": func() any { return problems.State() },
		"codeforces": func() any {
			return map[string]string{"breaker": cf.State()}
		},
	})

	server := coachhttp.NewHttpServer(handler, coachhttp.ServerOptions{
		Env:                cfg.Env,
		CorsOrigins:        cfg.CorsOrigins,
		Logger:             log,
		StatsFlushInterval: time.Minute,
	})

	log.Info("starting server", "address", cfg.HttpAddr, "env", cfg.Env)
	if err := server.Start(ctx, cfg.HttpAddr); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
