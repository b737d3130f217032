// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/api"
	httpapi "github.com/fleetforge/provision/api/http"
	"github.com/fleetforge/provision/etcd"
	jaegerClient "github.com/fleetforge/provision/internal/jaeger"
	"github.com/fleetforge/provision/internal/prometheus"
	"github.com/fleetforge/provision/internal/server"
	httpserver "github.com/fleetforge/provision/internal/server/http"
	"github.com/fleetforge/provision/internal/uuid"
	"github.com/fleetforge/provision/tracing"
	"github.com/go-chi/chi/v5"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "ca"
	envPrefixEtcd  = "FF_ETCD_"
	envPrefixHTTP  = "FF_CA_HTTP_"
	defSvcHTTPPort = "8000"
)

type config struct {
	LogLevel   string  `env:"FF_CA_LOG_LEVEL"      envDefault:"info"`
	CACertFile string  `env:"FF_CA_CERT_FILE"      envDefault:"/certs/ca.crt"`
	CAKeyFile  string  `env:"FF_CA_KEY_FILE"       envDefault:"/certs/ca.key"`
	JaegerURL  url.URL `env:"FF_JAEGER_URL"        envDefault:"http://jaeger:4318"`
	InstanceID string  `env:"FF_CA_INSTANCE_ID"    envDefault:""`
	TraceRatio float64 `env:"FF_JAEGER_TRACE_RATIO" envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf(err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID, err = uuid.New().ID()
		if err != nil {
			log.Fatalf(fmt.Sprintf("failed to generate instance ID: %s", err))
		}
	}

	etcdConfig := etcd.Config{}
	if err := env.ParseWithOptions(&etcdConfig, env.Options{Prefix: envPrefixEtcd}); err != nil {
		logger.Error(err.Error())
	}
	client, err := etcd.Connect(ctx, etcdConfig)
	if err != nil {
		log.Fatalf(fmt.Sprintf("Failed to connect to %s store: %s", svcName, err))
	}
	defer client.Close()

	tp, err := jaegerClient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
	}

	svc, err := newService(cfg, client, tracer, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s service: %s", svcName, err))
		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, httpapi.MakeHandler(chi.NewMux(), svc, logger), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(cfg config, client *clientv3.Client, tracer trace.Tracer, logger *slog.Logger) (provision.CA, error) {
	caCert, caKey, err := provision.LoadCA(cfg.CACertFile, cfg.CAKeyFile)
	if err != nil {
		return nil, err
	}
	repo := etcd.NewCertRepository(client)
	svc, err := provision.NewCA(caCert, caKey, repo)
	if err != nil {
		return nil, err
	}
	svc = api.CALoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = api.CAMetricsMiddleware(svc, counter, latency)
	svc = tracing.NewCA(svc, tracer)

	return svc, nil
}

func initLogger(levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return &slog.Logger{}, fmt.Errorf(`{"level":"error","message":"%s: %s","ts":"%s"}`, err, levelText, time.RFC3339Nano)
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(logHandler), nil
}
