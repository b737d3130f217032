// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"

	"github.com/fleetforge/provision/errors"
)

var (
	// ErrInvalidCSR indicates that the submitted signing request could not
	// be parsed as a PEM-encoded CSR.
	ErrInvalidCSR = errors.New("invalid certificate signing request")

	// ErrMissingIdentity indicates a CSR whose subject carries no Common Name.
	ErrMissingIdentity = errors.New("common name not found in CSR")

	// ErrFailedCertCreation indicates failure while constructing or signing
	// the certificate.
	ErrFailedCertCreation = errors.New("failed to create certificate")
)

//go:generate mockery --name CA --output=./mocks --filename ca.go --quiet --note "Copyright (c) FleetForge"
type CA interface {
	// SignCSR validates a PEM-encoded CSR and issues a certificate for the
	// device identity named by its subject CN. The issued certificate is
	// durably recorded before it is returned: a certificate the service has
	// no record of is never handed out.
	SignCSR(ctx context.Context, csrPEM []byte) ([]byte, error)

	// RetrieveCA returns the PEM-encoded CA certificate, the trust root
	// devices pin for the registration channel.
	RetrieveCA(ctx context.Context) ([]byte, error)
}

//go:generate mockery --name CertRepository --output=./mocks --filename cert_repository.go --quiet --note "Copyright (c) FleetForge"
type CertRepository interface {
	// SaveCert records an issued certificate keyed by device identity.
	// Re-issuance overwrites: each signing request produces a new
	// certificate and the latest one is the one on record.
	SaveCert(ctx context.Context, id DeviceIdentity, certPEM []byte) error
}
