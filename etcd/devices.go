// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package etcd

import (
	"context"
	"encoding/json"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const devicePrefix = "devices/"

type deviceRepository struct {
	client *clientv3.Client
}

var _ provision.DeviceRepository = (*deviceRepository)(nil)

// NewDeviceRepository returns a device repository persisting records under
// devices/{device_id}.
func NewDeviceRepository(client *clientv3.Client) provision.DeviceRepository {
	return &deviceRepository{client: client}
}

// CreateDevice applies a single conditional transaction: the put happens
// only if the key has never been written. The guard and the put commit
// atomically on the store, so it holds across process restarts and between
// server instances; no local locking could provide that.
func (r *deviceRepository) CreateDevice(ctx context.Context, dev provision.Device) (bool, error) {
	value, err := json.Marshal(dev)
	if err != nil {
		return false, errors.Wrap(errors.ErrMalformedEntity, err)
	}
	key := deviceKey(provision.DeviceIdentity(dev.DeviceID))

	resp, err := r.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, string(value))).
		Commit()
	if err != nil {
		return false, errors.Wrap(errors.ErrStorage, err)
	}

	return resp.Succeeded, nil
}

func (r *deviceRepository) RetrieveDevice(ctx context.Context, id provision.DeviceIdentity) (provision.Device, error) {
	resp, err := r.client.Get(ctx, deviceKey(id))
	if err != nil {
		return provision.Device{}, errors.Wrap(errors.ErrStorage, err)
	}
	if len(resp.Kvs) == 0 {
		return provision.Device{}, errors.ErrNotFound
	}

	var dev provision.Device
	if err := json.Unmarshal(resp.Kvs[0].Value, &dev); err != nil {
		return provision.Device{}, errors.Wrap(errors.ErrMalformedEntity, err)
	}
	return dev, nil
}

func (r *deviceRepository) UpdateDevice(ctx context.Context, dev provision.Device) error {
	value, err := json.Marshal(dev)
	if err != nil {
		return errors.Wrap(errors.ErrMalformedEntity, err)
	}
	if _, err := r.client.Put(ctx, deviceKey(provision.DeviceIdentity(dev.DeviceID)), string(value)); err != nil {
		return errors.Wrap(errors.ErrStorage, err)
	}
	return nil
}

func deviceKey(id provision.DeviceIdentity) string {
	return devicePrefix + id.String()
}
