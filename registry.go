// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"time"

	"github.com/fleetforge/provision/errors"
)

var (
	// ErrDeviceNotRegistered indicates a heartbeat for an identity that has
	// never registered.
	ErrDeviceNotRegistered = errors.New("device not registered")

	// ErrCorruptedRecord indicates a stored device record that no longer
	// deserializes.
	ErrCorruptedRecord = errors.New("corrupted device record")
)

type registry struct {
	repo DeviceRepository
}

var _ Registry = (*registry)(nil)

// NewRegistry returns the device lifecycle registry backed by the given
// repository. It holds no in-process state: all coordination between
// concurrent callers is delegated to the store.
func NewRegistry(repo DeviceRepository) Registry {
	return &registry{repo: repo}
}

func (r *registry) Register(ctx context.Context, id DeviceIdentity) (Device, bool, error) {
	now := time.Now().UTC()
	dev := Device{
		DeviceID:  id.String(),
		Status:    StatusRegistered,
		FirstSeen: now,
		LastSeen:  now,
	}

	// A single conditional transaction decides creation. Under a reconnect
	// storm exactly one caller wins the guard; everyone else lands on the
	// idempotent no-op path and first_seen is never overwritten.
	created, err := r.repo.CreateDevice(ctx, dev)
	if err != nil {
		return Device{}, false, errors.Wrap(errors.ErrCreateEntity, err)
	}
	if !created {
		existing, err := r.repo.RetrieveDevice(ctx, id)
		if err != nil {
			return Device{}, false, errors.Wrap(errors.ErrViewEntity, err)
		}
		return existing, false, nil
	}

	return dev, true, nil
}

func (r *registry) Heartbeat(ctx context.Context, id DeviceIdentity) (Device, error) {
	dev, err := r.repo.RetrieveDevice(ctx, id)
	switch {
	case err == nil:
	case errors.Contains(err, errors.ErrNotFound):
		return Device{}, errors.Wrap(ErrDeviceNotRegistered, err)
	case errors.Contains(err, errors.ErrMalformedEntity):
		return Device{}, errors.Wrap(ErrCorruptedRecord, err)
	default:
		return Device{}, errors.Wrap(errors.ErrViewEntity, err)
	}

	dev.LastSeen = time.Now().UTC()
	dev.Status = StatusActive

	// Write-back is deliberately unguarded: concurrent heartbeats for one
	// identity race and the later write wins. No heartbeat is rejected for
	// losing that race.
	if err := r.repo.UpdateDevice(ctx, dev); err != nil {
		return Device{}, errors.Wrap(errors.ErrUpdateEntity, err)
	}

	return dev, nil
}
