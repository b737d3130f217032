// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package sdk

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/fleetforge/provision"
)

const identityFileMode = 0o600

// Identity is the locally persisted device identity: the private key and
// the certificate issued for it, plus the CA trust root.
type Identity struct {
	KeyPEM  []byte
	CertPEM []byte
	CAPEM   []byte
}

// NewCSR generates a fresh keypair and builds a PEM-encoded CSR whose
// subject CN is the device identity. The private key never leaves the
// device; only the CSR travels to the CA.
func NewCSR(id provision.DeviceIdentity, subject provision.SubjectConfig) (keyPEM, csrPEM []byte, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})

	csrDER, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject: subject.Name(id),
	}, key)
	if err != nil {
		return nil, nil, err
	}
	csrPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: csrDER})

	return keyPEM, csrPEM, nil
}

// Save persists the identity into dir as key.pem, cert.pem and ca.pem.
func (i Identity) Save(dir string) error {
	files := map[string][]byte{
		"key.pem":  i.KeyPEM,
		"cert.pem": i.CertPEM,
		"ca.pem":   i.CAPEM,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, identityFileMode); err != nil {
			return err
		}
	}
	return nil
}

// LoadIdentity reads a previously saved identity from dir.
func LoadIdentity(dir string) (Identity, error) {
	var id Identity
	var err error
	if id.KeyPEM, err = os.ReadFile(filepath.Join(dir, "key.pem")); err != nil {
		return Identity{}, err
	}
	if id.CertPEM, err = os.ReadFile(filepath.Join(dir, "cert.pem")); err != nil {
		return Identity{}, err
	}
	if id.CAPEM, err = os.ReadFile(filepath.Join(dir, "ca.pem")); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Certificate returns the TLS client certificate for the registration
// channel.
func (i Identity) Certificate() (tls.Certificate, error) {
	return tls.X509KeyPair(i.CertPEM, i.KeyPEM)
}
