// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package sdk_test

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/fleetforge/provision"
	httpapi "github.com/fleetforge/provision/api/http"
	"github.com/fleetforge/provision/mocks"
	"github.com/fleetforge/provision/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const issuedCert = "-----BEGIN CERTIFICATE-----\nMIIC\n-----END CERTIFICATE-----\n"

func setupSDK(svc provision.CA) (sdk.SDK, *httptest.Server) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ts := httptest.NewServer(httpapi.MakeHandler(chi.NewMux(), svc, logger))
	return sdk.NewSDK(sdk.Config{CAURL: ts.URL, MsgContentType: sdk.CTJSON}), ts
}

func TestSDKSignCSR(t *testing.T) {
	testCases := []struct {
		desc   string
		svcErr error
		cert   []byte
		err    bool
	}{
		{
			desc: "sign CSR successfully",
			cert: []byte(issuedCert),
		},
		{
			desc:   "invalid CSR",
			svcErr: provision.ErrInvalidCSR,
			err:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			svc := new(mocks.CA)
			svc.On("SignCSR", mock.Anything, mock.Anything).Return(tc.cert, tc.svcErr)
			s, ts := setupSDK(svc)
			defer ts.Close()

			cert, err := s.SignCSR([]byte("-----BEGIN CERTIFICATE REQUEST-----\nMIIB\n-----END CERTIFICATE REQUEST-----\n"))
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tc.cert, cert)
		})
	}
}

func TestSDKRetrieveCA(t *testing.T) {
	svc := new(mocks.CA)
	svc.On("RetrieveCA", mock.Anything).Return([]byte(issuedCert), nil)
	s, ts := setupSDK(svc)
	defer ts.Close()

	ca, err := s.RetrieveCA()
	require.Nil(t, err)
	assert.Equal(t, []byte(issuedCert), ca)
}

func TestSDKHealth(t *testing.T) {
	s, ts := setupSDK(new(mocks.CA))

	err := s.Health()
	assert.Nil(t, err)

	ts.Close()
	err = s.Health()
	assert.NotNil(t, err)
}
