// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"crypto/x509"

	"github.com/fleetforge/provision/errors"
)

// ErrUnidentifiedDevice indicates a peer certificate from which no device
// identity could be extracted.
var ErrUnidentifiedDevice = errors.New("device identity not present in certificate")

// DeviceIdentity is the identity a device proves through its certificate.
// It is derived exactly once per connection, at handshake time, and is the
// only value ever used to address device state. Untrusted input never
// becomes a DeviceIdentity without passing through IdentityFromCertificate.
type DeviceIdentity string

func (id DeviceIdentity) String() string {
	return string(id)
}

// IdentityFromCertificate extracts the device identity from the Common Name
// of a verified peer certificate. An absent CN fails closed: the caller must
// drop the connection rather than proceed with an unidentifiable peer.
func IdentityFromCertificate(cert *x509.Certificate) (DeviceIdentity, error) {
	if cert == nil {
		return "", ErrUnidentifiedDevice
	}
	cn := cert.Subject.CommonName
	if cn == "" {
		return "", ErrUnidentifiedDevice
	}
	return DeviceIdentity(cn), nil
}
