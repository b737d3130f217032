// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"encoding/json"
	"io"
	"net/http"
)

// SDKError is an error type for the provision SDK.
type SDKError interface {
	Error
	StatusCode() int
}

var _ SDKError = (*sdkError)(nil)

type sdkError struct {
	*customError
	statusCode int
}

func (ce *sdkError) Error() string {
	if ce == nil {
		return ""
	}
	if ce.customError == nil {
		return http.StatusText(ce.statusCode)
	}
	return ce.customError.Error()
}

func (ce *sdkError) StatusCode() int {
	return ce.statusCode
}

// NewSDKError returns an SDK Error that formats as the given error.
func NewSDKError(err error) SDKError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*customError); ok {
		return &sdkError{
			customError: e,
			statusCode:  0,
		}
	}
	return &sdkError{
		customError: &customError{
			msg: err.Error(),
			err: nil,
		},
		statusCode: 0,
	}
}

// NewSDKErrorWithStatus returns an SDK Error setting the status code.
func NewSDKErrorWithStatus(err error, statusCode int) SDKError {
	return &sdkError{
		statusCode:  statusCode,
		customError: cast(err).(*customError),
	}
}

// CheckError will check the HTTP response status code and matches it with the
// given status codes. Since multiple status codes can be valid for a specific
// operation, multiple expected status codes can be passed.
func CheckError(resp *http.Response, expectedStatusCodes ...int) SDKError {
	if resp == nil {
		return nil
	}
	for _, expectedStatusCode := range expectedStatusCodes {
		if resp.StatusCode == expectedStatusCode {
			return nil
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewSDKErrorWithStatus(Wrap(errRespBody, err), resp.StatusCode)
	}

	var content map[string]any
	if err := json.Unmarshal(b, &content); err != nil {
		return NewSDKErrorWithStatus(New(string(b)), resp.StatusCode)
	}

	if msg, ok := content["message"]; ok {
		if v, ok := msg.(string); ok {
			return NewSDKErrorWithStatus(New(v), resp.StatusCode)
		}
	}
	if msg, ok := content["error"]; ok {
		if v, ok := msg.(string); ok {
			return NewSDKErrorWithStatus(New(v), resp.StatusCode)
		}
	}

	return NewSDKErrorWithStatus(New(string(b)), resp.StatusCode)
}

var errRespBody = New("failed to read response body")
