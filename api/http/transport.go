// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fleetforge/provision"
	"github.com/fleetforge/provision/api"
	"github.com/fleetforge/provision/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MakeHandler returns a HTTP handler for the CA API endpoints.
func MakeHandler(r *chi.Mux, svc provision.CA, logger *slog.Logger) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	r.Post("/sign-csr", kithttp.NewServer(
		signCSREndpoint(svc),
		decodeSignCSR,
		encodePEMResponse,
		opts...,
	).ServeHTTP)

	r.Get("/ca", kithttp.NewServer(
		retrieveCAEndpoint(svc),
		decodeRetrieveCA,
		encodePEMResponse,
		opts...,
	).ServeHTTP)

	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func decodeSignCSR(_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.ErrUnsupportedContentType
	}

	var req signCSRReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidRequest, err)
	}
	return req, nil
}

func decodeRetrieveCA(_ context.Context, _ *http.Request) (any, error) {
	return retrieveCAReq{}, nil
}

// encodePEMResponse writes the issued certificate as raw PEM text rather
// than a JSON envelope; devices persist the body verbatim.
func encodePEMResponse(_ context.Context, w http.ResponseWriter, response any) error {
	res := response.(pemRes)
	w.Header().Set("Content-Type", "application/x-pem-file")
	w.WriteHeader(res.Code())
	_, err := w.Write(res.PEM)
	return err
}
