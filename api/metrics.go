// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"time"

	"github.com/fleetforge/provision"
	"github.com/go-kit/kit/metrics"
)

var _ provision.CA = (*caMetricsMiddleware)(nil)

type caMetricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     provision.CA
}

// CAMetricsMiddleware instruments the CA service by tracking request count
// and latency.
func CAMetricsMiddleware(svc provision.CA, counter metrics.Counter, latency metrics.Histogram) provision.CA {
	return &caMetricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *caMetricsMiddleware) SignCSR(ctx context.Context, csrPEM []byte) ([]byte, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "sign_csr").Add(1)
		mm.latency.With("method", "sign_csr").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.SignCSR(ctx, csrPEM)
}

func (mm *caMetricsMiddleware) RetrieveCA(ctx context.Context) ([]byte, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "retrieve_ca").Add(1)
		mm.latency.With("method", "retrieve_ca").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.RetrieveCA(ctx)
}

var _ provision.Registry = (*registryMetricsMiddleware)(nil)

type registryMetricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     provision.Registry
}

// RegistryMetricsMiddleware instruments the device registry by tracking
// request count and latency.
func RegistryMetricsMiddleware(svc provision.Registry, counter metrics.Counter, latency metrics.Histogram) provision.Registry {
	return &registryMetricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *registryMetricsMiddleware) Register(ctx context.Context, id provision.DeviceIdentity) (provision.Device, bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "register").Add(1)
		mm.latency.With("method", "register").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.Register(ctx, id)
}

func (mm *registryMetricsMiddleware) Heartbeat(ctx context.Context, id provision.DeviceIdentity) (provision.Device, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "heartbeat").Add(1)
		mm.latency.With("method", "heartbeat").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.Heartbeat(ctx, id)
}
