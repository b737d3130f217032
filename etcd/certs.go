// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package etcd

import (
	"context"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const certPrefix = "devices/certificates/"

type certRepository struct {
	client *clientv3.Client
}

var _ provision.CertRepository = (*certRepository)(nil)

// NewCertRepository returns a certificate repository persisting issued
// certificates under devices/certificates/{device_id}. Each signing request
// writes a distinct key or supersedes the previous issuance for the same
// identity, so concurrent signings need no mutual exclusion.
func NewCertRepository(client *clientv3.Client) provision.CertRepository {
	return &certRepository{client: client}
}

func (r *certRepository) SaveCert(ctx context.Context, id provision.DeviceIdentity, certPEM []byte) error {
	if _, err := r.client.Put(ctx, certPrefix+id.String(), string(certPEM)); err != nil {
		return errors.Wrap(errors.ErrStorage, err)
	}
	return nil
}
