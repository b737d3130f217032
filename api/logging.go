// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetforge/provision"
)

var _ provision.CA = (*caLoggingMiddleware)(nil)

type caLoggingMiddleware struct {
	logger *slog.Logger
	svc    provision.CA
}

// CALoggingMiddleware adds logging facilities to the CA service.
func CALoggingMiddleware(svc provision.CA, logger *slog.Logger) provision.CA {
	return &caLoggingMiddleware{logger, svc}
}

func (lm *caLoggingMiddleware) SignCSR(ctx context.Context, csrPEM []byte) (cert []byte, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method sign_csr took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.SignCSR(ctx, csrPEM)
}

func (lm *caLoggingMiddleware) RetrieveCA(ctx context.Context) (cert []byte, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method retrieve_ca took %s to complete", time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.RetrieveCA(ctx)
}

var _ provision.Registry = (*registryLoggingMiddleware)(nil)

type registryLoggingMiddleware struct {
	logger *slog.Logger
	svc    provision.Registry
}

// RegistryLoggingMiddleware adds logging facilities to the device registry.
func RegistryLoggingMiddleware(svc provision.Registry, logger *slog.Logger) provision.Registry {
	return &registryLoggingMiddleware{logger, svc}
}

func (lm *registryLoggingMiddleware) Register(ctx context.Context, id provision.DeviceIdentity) (dev provision.Device, created bool, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method register for device %s took %s to complete", id, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.Register(ctx, id)
}

func (lm *registryLoggingMiddleware) Heartbeat(ctx context.Context, id provision.DeviceIdentity) (dev provision.Device, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method heartbeat for device %s took %s to complete", id, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.svc.Heartbeat(ctx, id)
}
