// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/fleetforge/provision"
	"go.opentelemetry.io/otel/trace"
)

var _ provision.CA = (*caTracingMiddleware)(nil)

type caTracingMiddleware struct {
	tracer trace.Tracer
	svc    provision.CA
}

// NewCA returns a CA service with tracing capabilities.
func NewCA(svc provision.CA, tracer trace.Tracer) provision.CA {
	return &caTracingMiddleware{tracer, svc}
}

func (tm *caTracingMiddleware) SignCSR(ctx context.Context, csrPEM []byte) ([]byte, error) {
	ctx, span := tm.tracer.Start(ctx, "sign_csr")
	defer span.End()
	return tm.svc.SignCSR(ctx, csrPEM)
}

func (tm *caTracingMiddleware) RetrieveCA(ctx context.Context) ([]byte, error) {
	ctx, span := tm.tracer.Start(ctx, "retrieve_ca")
	defer span.End()
	return tm.svc.RetrieveCA(ctx)
}

var _ provision.Registry = (*registryTracingMiddleware)(nil)

type registryTracingMiddleware struct {
	tracer trace.Tracer
	svc    provision.Registry
}

// NewRegistry returns a device registry with tracing capabilities.
func NewRegistry(svc provision.Registry, tracer trace.Tracer) provision.Registry {
	return &registryTracingMiddleware{tracer, svc}
}

func (tm *registryTracingMiddleware) Register(ctx context.Context, id provision.DeviceIdentity) (provision.Device, bool, error) {
	ctx, span := tm.tracer.Start(ctx, "register")
	defer span.End()
	return tm.svc.Register(ctx, id)
}

func (tm *registryTracingMiddleware) Heartbeat(ctx context.Context, id provision.DeviceIdentity) (provision.Device, error) {
	ctx, span := tm.tracer.Start(ctx, "heartbeat")
	defer span.End()
	return tm.svc.Heartbeat(ctx, id)
}
