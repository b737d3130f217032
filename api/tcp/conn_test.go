// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package tcp_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/fleetforge/provision"
	tcpapi "github.com/fleetforge/provision/api/tcp"
	"github.com/fleetforge/provision/mocks"
	"github.com/fleetforge/provision/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testCA struct {
	cert *x509.Certificate
	key  *ecdsa.PrivateKey
	pem  []byte
}

func newTestCA(t *testing.T) *testCA {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "FleetForge Test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	return &testCA{
		cert: cert,
		key:  key,
		pem:  pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
	}
}

func (ca *testCA) issue(t *testing.T, commonName string, extUsage x509.ExtKeyUsage) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{extUsage},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, ca.cert, &key.PublicKey, ca.key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	cert, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
	)
	require.NoError(t, err)

	return cert
}

// startServer accepts mTLS connections and hands them to the session
// handler, the same way the registration server does.
func startServer(t *testing.T, svc provision.Registry, ca *testCA) string {
	t.Helper()

	pool := x509.NewCertPool()
	pool.AddCert(ca.cert)
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{ca.issue(t, "registration.fleetforge.local", x509.ExtKeyUsageServerAuth)},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    pool,
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	handler := tcpapi.NewHandler(svc, testLogger(), time.Second, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handler.ServeConn(ctx, tls.Server(conn, tlsConfig))
		}
	}()

	return ln.Addr().String()
}

func TestServeConnBindsCertificateIdentity(t *testing.T) {
	ca := newTestCA(t)

	svc := new(mocks.Registry)
	svc.On("Register", mock.Anything, provision.DeviceIdentity("device-a")).Return(provision.Device{DeviceID: "device-a"}, true, nil)
	svc.On("Heartbeat", mock.Anything, provision.DeviceIdentity("device-b")).Return(provision.Device{}, provision.ErrDeviceNotRegistered)

	addr := startServer(t, svc, ca)

	connA, err := sdk.Connect(addr, ca.issue(t, "device-a", x509.ExtKeyUsageClientAuth), ca.pem)
	require.NoError(t, err)
	defer connA.Close()

	res, err := connA.Register()
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "registration completed", res.Message)

	// A different certificate gets a different identity on its own
	// connection.
	connB, err := sdk.Connect(addr, ca.issue(t, "device-b", x509.ExtKeyUsageClientAuth), ca.pem)
	require.NoError(t, err)
	defer connB.Close()

	res, err = connB.Heartbeat()
	require.NoError(t, err)
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, "not registered", res.Message)
}

func TestServeConnRejectsMissingIdentity(t *testing.T) {
	ca := newTestCA(t)
	svc := new(mocks.Registry)
	addr := startServer(t, svc, ca)

	// Chain-valid certificate with an empty CN: the handshake succeeds but
	// the server closes without answering any command.
	conn, err := sdk.Connect(addr, ca.issue(t, "", x509.ExtKeyUsageClientAuth), ca.pem)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Register()
	assert.Error(t, err)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestServeConnRejectsUntrustedCertificate(t *testing.T) {
	ca := newTestCA(t)
	rogue := newTestCA(t)
	svc := new(mocks.Registry)
	addr := startServer(t, svc, ca)

	conn, err := sdk.Connect(addr, rogue.issue(t, "device-a", x509.ExtKeyUsageClientAuth), ca.pem)
	if err != nil {
		return
	}
	defer conn.Close()

	// The client cert fails chain verification during the handshake; the
	// failure surfaces on first use of the connection.
	_, err = conn.Register()
	assert.Error(t, err)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}
