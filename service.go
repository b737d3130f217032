// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"math/big"
	"time"

	"github.com/fleetforge/provision/errors"
)

const (
	// certValidityPeriod is the lifetime of every issued device certificate.
	certValidityPeriod = 365 * 24 * time.Hour

	// serialNumberBits sizes the random serial. Collisions are accepted as
	// negligible at this width; issued serials are not checked against
	// prior ones.
	serialNumberBits = 159

	csrPEMType  = "CERTIFICATE REQUEST"
	certPEMType = "CERTIFICATE"
)

var serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), serialNumberBits)

// ErrRootCANotFound indicates that the CA certificate or key is missing.
var ErrRootCANotFound = errors.New("root CA not found")

type caService struct {
	caCert *x509.Certificate
	caKey  crypto.Signer
	repo   CertRepository
}

var _ CA = (*caService)(nil)

// NewCA returns a certificate authority service signing with the given key
// pair. The pair is loaded once at startup and is read-only for the process
// lifetime, so the service is safe for concurrent use without locking.
func NewCA(caCert *x509.Certificate, caKey crypto.Signer, repo CertRepository) (CA, error) {
	if caCert == nil || caKey == nil {
		return nil, ErrRootCANotFound
	}
	return &caService{
		caCert: caCert,
		caKey:  caKey,
		repo:   repo,
	}, nil
}

func (s *caService) SignCSR(ctx context.Context, csrPEM []byte) ([]byte, error) {
	block, _ := pem.Decode(csrPEM)
	if block == nil || block.Type != csrPEMType {
		return nil, ErrInvalidCSR
	}
	csr, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCSR, err)
	}
	if err := csr.CheckSignature(); err != nil {
		return nil, errors.Wrap(ErrInvalidCSR, err)
	}

	if csr.Subject.CommonName == "" {
		return nil, ErrMissingIdentity
	}
	deviceID := DeviceIdentity(csr.Subject.CommonName)

	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return nil, errors.Wrap(ErrFailedCertCreation, err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               csr.Subject,
		NotBefore:             now,
		NotAfter:              now.Add(certValidityPeriod),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, s.caCert, csr.PublicKey, s.caKey)
	if err != nil {
		return nil, errors.Wrap(ErrFailedCertCreation, err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: certPEMType, Bytes: certDER})

	// Sign, persist, respond. Issuance succeeds only once durably recorded.
	if err := s.repo.SaveCert(ctx, deviceID, certPEM); err != nil {
		return nil, errors.Wrap(errors.ErrStorage, err)
	}

	return certPEM, nil
}

func (s *caService) RetrieveCA(_ context.Context) ([]byte, error) {
	return pem.EncodeToMemory(&pem.Block{Type: certPEMType, Bytes: s.caCert.Raw}), nil
}
