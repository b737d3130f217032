// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision

import (
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"os"

	"github.com/fleetforge/provision/errors"
	"gopkg.in/yaml.v2"
)

var (
	errLoadCACert = errors.New("failed to load CA certificate")
	errLoadCAKey  = errors.New("failed to load CA private key")
)

// LoadCA reads the CA key pair from the given PEM files. It is called once
// at startup and the result is shared read-only by every request handler;
// an unreadable pair is a startup failure, never a recoverable condition.
func LoadCA(certFile, keyFile string) (*x509.Certificate, crypto.Signer, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, nil, errors.Wrap(errLoadCACert, err)
	}
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != certPEMType {
		return nil, nil, errLoadCACert
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, nil, errors.Wrap(errLoadCACert, err)
	}

	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, nil, errors.Wrap(errLoadCAKey, err)
	}
	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, nil, errors.Wrap(errLoadCAKey, err)
	}

	return cert, key, nil
}

func parsePrivateKey(keyPEM []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errLoadCAKey
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if signer, ok := key.(crypto.Signer); ok {
			return signer, nil
		}
		return nil, errLoadCAKey
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	return nil, errLoadCAKey
}

// SubjectConfig carries the CSR subject defaults used by the bootstrap
// tooling when it builds signing requests. The Common Name is never part of
// it: the device identity is always supplied per device.
type SubjectConfig struct {
	Organization       []string `yaml:"organization"`
	OrganizationalUnit []string `yaml:"organizational_unit"`
	Country            []string `yaml:"country"`
	Province           []string `yaml:"province"`
	Locality           []string `yaml:"locality"`
	StreetAddress      []string `yaml:"street_address"`
	PostalCode         []string `yaml:"postal_code"`
}

// LoadSubjectConfig loads CSR subject defaults from a YAML file.
func LoadSubjectConfig(filename string) (SubjectConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return SubjectConfig{}, err
	}
	defer file.Close()

	var config SubjectConfig
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return SubjectConfig{}, err
	}
	return config, nil
}

// Name builds the CSR subject for the given device identity.
func (c SubjectConfig) Name(id DeviceIdentity) pkix.Name {
	return pkix.Name{
		CommonName:         id.String(),
		Organization:       c.Organization,
		OrganizationalUnit: c.OrganizationalUnit,
		Country:            c.Country,
		Province:           c.Province,
		Locality:           c.Locality,
		StreetAddress:      c.StreetAddress,
		PostalCode:         c.PostalCode,
	}
}
