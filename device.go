// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"time"
)

// Status is the lifecycle state of a device record.
type Status string

const (
	// StatusRegistered is assigned by the first successful registration.
	StatusRegistered Status = "registered"

	// StatusActive is assigned by every accepted heartbeat.
	StatusActive Status = "active"
)

// Device is the persisted lifecycle state for one device identity.
// A record is created exactly once per identity and never deleted.
type Device struct {
	DeviceID  string    `json:"device_id"`
	Status    Status    `json:"status"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

//go:generate mockery --name Registry --output=./mocks --filename registry.go --quiet --note "Copyright (c) FleetForge"
type Registry interface {
	// Register creates the device record if this identity was never seen
	// before. The returned flag reports whether the record was created by
	// this call; re-registration is a no-op, not an error.
	Register(ctx context.Context, id DeviceIdentity) (Device, bool, error)

	// Heartbeat advances last_seen and marks the device active. A device
	// must be registered before it may heartbeat.
	Heartbeat(ctx context.Context, id DeviceIdentity) (Device, error)
}

//go:generate mockery --name DeviceRepository --output=./mocks --filename device_repository.go --quiet --note "Copyright (c) FleetForge"
type DeviceRepository interface {
	// CreateDevice atomically creates the record if its key has never been
	// written. It reports false without touching the store when the record
	// already exists. The guard must hold across process restarts and
	// multiple server instances, so it is delegated to the store's own
	// conditional-transaction primitive.
	CreateDevice(ctx context.Context, dev Device) (bool, error)

	// RetrieveDevice retrieves the record for the given identity.
	RetrieveDevice(ctx context.Context, id DeviceIdentity) (Device, error)

	// UpdateDevice overwrites the record unconditionally.
	UpdateDevice(ctx context.Context, dev Device) error
}
