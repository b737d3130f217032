// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision_test

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/errors"
	"github.com/stretchr/testify/assert"
)

func TestIdentityFromCertificate(t *testing.T) {
	testCases := []struct {
		desc string
		cert *x509.Certificate
		id   provision.DeviceIdentity
		err  error
	}{
		{
			desc: "certificate with common name",
			cert: &x509.Certificate{Subject: pkix.Name{CommonName: deviceID}},
			id:   deviceID,
		},
		{
			desc: "certificate without common name",
			cert: &x509.Certificate{Subject: pkix.Name{Organization: []string{"FleetForge"}}},
			err:  provision.ErrUnidentifiedDevice,
		},
		{
			desc: "nil certificate",
			cert: nil,
			err:  provision.ErrUnidentifiedDevice,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			id, err := provision.IdentityFromCertificate(tc.cert)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), "expected %v, got %v", tc.err, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.id, id)
		})
	}
}
