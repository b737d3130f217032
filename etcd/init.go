// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

// Package etcd provides the repositories persisting device state and issued
// certificates in the distributed key-value store. The store is the only
// mutable resource shared between server instances; all cross-instance
// coordination is expressed through its transaction primitive.
package etcd

import (
	"context"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Config is the etcd client configuration.
type Config struct {
	URL         string        `env:"URL"          envDefault:"localhost:2379"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}

// Connect establishes a client connection and verifies the endpoint is
// reachable. Reaching the store is a startup precondition: the caller is
// expected to fail fast on error. The returned client multiplexes RPCs from
// concurrent callers over its own connections and is safe to share.
func Connect(ctx context.Context, cfg Config) (*clientv3.Client, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   []string{cfg.URL},
		DialTimeout: cfg.DialTimeout,
		Context:     ctx,
	})
	if err != nil {
		return nil, err
	}

	statusCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if _, err := client.Status(statusCtx, cfg.URL); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}
