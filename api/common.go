// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/errors"
	kithttp "github.com/go-kit/kit/transport/http"
)

// ContentType represents JSON content type.
const ContentType = "application/json"

var errInternal = errors.New("internal server error")

// Response contains HTTP response specific methods.
type Response interface {
	// Code returns HTTP response code.
	Code() int

	// Headers returns map of HTTP headers with their values.
	Headers() map[string]string

	// Empty indicates if HTTP response has content.
	Empty() bool
}

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response any) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, provision.ErrInvalidCSR),
		errors.Contains(err, provision.ErrMissingIdentity),
		errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, errors.ErrInvalidRequest):
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, errors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, errors.ErrConflict):
		w.WriteHeader(http.StatusConflict)

	case errors.Contains(err, errors.ErrUnsupportedContentType):
		w.WriteHeader(http.StatusUnsupportedMediaType)

	default:
		// Storage and signing internals never leak to the caller.
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(errInternal); err != nil {
			return
		}
		return
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

// LoggingErrorEncoder is a go-kit error encoder logging the error before
// encoding it.
func LoggingErrorEncoder(logger *slog.Logger, enc kithttp.ErrorEncoder) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.Warn(err.Error())
		enc(ctx, err, w)
	}
}
