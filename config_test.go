// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package provision_test

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/fleetforge/provision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCA(t *testing.T) {
	caCert, caKey := newTestRootCA(t)
	dir := t.TempDir()

	certFile := filepath.Join(dir, "ca.crt")
	keyFile := filepath.Join(dir, "ca.key")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caCert.Raw})
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))

	keyDER, err := x509.MarshalPKCS8PrivateKey(caKey)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))

	cert, key, err := provision.LoadCA(certFile, keyFile)
	require.NoError(t, err)
	assert.Equal(t, caCert.Raw, cert.Raw)
	assert.Equal(t, caKey.Public(), key.Public())
}

func TestLoadCAECKey(t *testing.T) {
	caCert, caKey := newTestRootCA(t)
	dir := t.TempDir()

	certFile := filepath.Join(dir, "ca.crt")
	keyFile := filepath.Join(dir, "ca.key")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caCert.Raw})
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))

	keyDER, err := x509.MarshalECPrivateKey(caKey)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))

	_, key, err := provision.LoadCA(certFile, keyFile)
	require.NoError(t, err)
	assert.Equal(t, caKey.Public(), key.Public())
}

func TestLoadCAFailures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not PEM"), 0o600))

	testCases := []struct {
		desc     string
		certFile string
		keyFile  string
	}{
		{
			desc:     "missing certificate file",
			certFile: filepath.Join(dir, "absent.crt"),
			keyFile:  garbage,
		},
		{
			desc:     "garbage certificate",
			certFile: garbage,
			keyFile:  garbage,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, _, err := provision.LoadCA(tc.certFile, tc.keyFile)
			assert.Error(t, err)
		})
	}
}

func TestLoadSubjectConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "subject.yaml")
	content := `organization:
  - FleetForge
country:
  - US
locality:
  - Portland
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	subject, err := provision.LoadSubjectConfig(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"FleetForge"}, subject.Organization)
	assert.Equal(t, []string{"US"}, subject.Country)
	assert.Equal(t, []string{"Portland"}, subject.Locality)

	name := subject.Name("device-123")
	assert.Equal(t, "device-123", name.CommonName)
	assert.Equal(t, []string{"FleetForge"}, name.Organization)
}

func TestLoadSubjectConfigMissing(t *testing.T) {
	_, err := provision.LoadSubjectConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
