// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/api"
	tcpapi "github.com/fleetforge/provision/api/tcp"
	"github.com/fleetforge/provision/etcd"
	jaegerClient "github.com/fleetforge/provision/internal/jaeger"
	"github.com/fleetforge/provision/internal/prometheus"
	"github.com/fleetforge/provision/internal/server"
	httpserver "github.com/fleetforge/provision/internal/server/http"
	tcpserver "github.com/fleetforge/provision/internal/server/tcp"
	"github.com/fleetforge/provision/internal/uuid"
	"github.com/fleetforge/provision/tracing"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName          = "registration"
	envPrefixEtcd    = "FF_ETCD_"
	envPrefixTCP     = "FF_REGISTRATION_"
	envPrefixHealth  = "FF_REGISTRATION_HEALTH_"
	defSvcTCPPort    = "8443"
	defSvcHealthPort = "9000"
)

type config struct {
	LogLevel   string  `env:"FF_REGISTRATION_LOG_LEVEL"   envDefault:"info"`
	JaegerURL  url.URL `env:"FF_JAEGER_URL"               envDefault:"http://jaeger:4318"`
	InstanceID string  `env:"FF_REGISTRATION_INSTANCE_ID" envDefault:""`
	TraceRatio float64 `env:"FF_JAEGER_TRACE_RATIO"       envDefault:"1.0"`
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

	tcpServerConfig := server.Config{Port: defSvcTCPPort}
	if err := env.ParseWithOptions(&tcpServerConfig, env.Options{Prefix: envPrefixTCP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s TCP server configuration : %s", svcName, err))
	}

	healthServerConfig := server.Config{Port: defSvcHealthPort}
	if err := env.ParseWithOptions(&healthServerConfig, env.Options{Prefix: envPrefixHealth}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s health server configuration : %s", svcName, err))
	}

	svc := newService(client, tracer, logger)

	handler := tcpapi.NewHandler(svc, logger, tcpServerConfig.ReadTimeout, tcpServerConfig.WriteTimeout)
	ts := tcpserver.NewServer(ctx, cancel, svcName, tcpServerConfig, handler, logger)

	hs := httpserver.NewServer(ctx, cancel, svcName, healthServerConfig, healthHandler(), logger)

	g.Go(func() error {
		return ts.Start()
	})

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, ts, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(client *clientv3.Client, tracer trace.Tracer, logger *slog.Logger) provision.Registry {
	repo := etcd.NewDeviceRepository(client)
	svc := provision.NewRegistry(repo)
	svc = api.RegistryLoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = api.RegistryMetricsMiddleware(svc, counter, latency)
	svc = tracing.NewRegistry(svc, tracer)

	return svc
}

func healthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	return mux
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
