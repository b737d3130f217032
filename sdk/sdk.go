// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

// Package sdk exposes the provisioning interfaces devices build against:
// the CA signing endpoint over HTTP and the registration protocol over
// mTLS.
package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/fleetforge/provision/errors"
	"moul.io/http2curl"
)

const (
	signCSREndpoint = "sign-csr"
	caEndpoint      = "ca"
	healthEndpoint  = "health"
)

// CTJSON represents JSON content type.
const CTJSON ContentType = "application/json"

// ContentType represents all possible content types.
type ContentType string

// Config is the SDK configuration.
type Config struct {
	CAURL string

	MsgContentType  ContentType
	TLSVerification bool
	CurlFlag        bool
}

type signReq struct {
	CSRPem string `json:"csr_pem"`
}

// SDK is the CA service client.
type SDK interface {
	// SignCSR submits a PEM-encoded CSR and returns the signed certificate
	// in PEM form.
	//
	// example:
	//  cert, _ := sdk.SignCSR(csrPEM)
	//  fmt.Println(string(cert))
	SignCSR(csrPEM []byte) ([]byte, errors.SDKError)

	// RetrieveCA fetches the PEM-encoded CA certificate, the trust root
	// for the registration channel.
	//
	// example:
	//  ca, _ := sdk.RetrieveCA()
	//  fmt.Println(string(ca))
	RetrieveCA() ([]byte, errors.SDKError)

	// Health checks the liveness of the CA service.
	//
	// example:
	//  err := sdk.Health()
	//  fmt.Println(err) // nil if serving
	Health() errors.SDKError
}

type pvSDK struct {
	caURL    string
	client   *http.Client
	curlFlag bool
}

// NewSDK returns a new provision SDK instance.
func NewSDK(conf Config) SDK {
	return &pvSDK{
		caURL: conf.CAURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !conf.TLSVerification,
				},
			},
		},
		curlFlag: conf.CurlFlag,
	}
}

func (sdk pvSDK) SignCSR(csrPEM []byte) ([]byte, errors.SDKError) {
	d, err := json.Marshal(signReq{CSRPem: string(csrPEM)})
	if err != nil {
		return nil, errors.NewSDKError(err)
	}

	url := fmt.Sprintf("%s/%s", sdk.caURL, signCSREndpoint)
	_, body, sdkerr := sdk.processRequest(http.MethodPost, url, d, nil, http.StatusOK)
	if sdkerr != nil {
		return nil, sdkerr
	}

	return body, nil
}

func (sdk pvSDK) RetrieveCA() ([]byte, errors.SDKError) {
	url := fmt.Sprintf("%s/%s", sdk.caURL, caEndpoint)
	_, body, sdkerr := sdk.processRequest(http.MethodGet, url, nil, nil, http.StatusOK)
	if sdkerr != nil {
		return nil, sdkerr
	}

	return body, nil
}

func (sdk pvSDK) Health() errors.SDKError {
	url := fmt.Sprintf("%s/%s", sdk.caURL, healthEndpoint)
	_, _, sdkerr := sdk.processRequest(http.MethodGet, url, nil, nil, http.StatusOK)
	return sdkerr
}

// processRequest creates and sends a new HTTP request, and checks for
// errors in the HTTP response.
func (sdk pvSDK) processRequest(method, reqUrl string, data []byte, headers map[string]string, expectedRespCodes ...int) (http.Header, []byte, errors.SDKError) {
	req, err := http.NewRequest(method, reqUrl, bytes.NewReader(data))
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}

	// Sets a default value for the Content-Type.
	// Overridden if Content-Type is passed in the headers arguments.
	req.Header.Add("Content-Type", string(CTJSON))

	for key, value := range headers {
		req.Header.Add(key, value)
	}

	if sdk.curlFlag {
		curlCommand, err := http2curl.GetCurlCommand(req)
		if err != nil {
			return nil, nil, errors.NewSDKError(err)
		}
		log.Println(curlCommand.String())
	}

	resp, err := sdk.client.Do(req)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}
	defer resp.Body.Close()
	sdkerr := errors.CheckError(resp, expectedRespCodes...)
	if sdkerr != nil {
		return make(http.Header), []byte{}, sdkerr
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return make(http.Header), []byte{}, errors.NewSDKError(err)
	}
	return resp.Header, body, nil
}
