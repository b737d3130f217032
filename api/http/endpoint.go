// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"

	"github.com/fleetforge/provision"
	"github.com/go-kit/kit/endpoint"
)

func signCSREndpoint(svc provision.CA) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(signCSRReq)
		if err := req.validate(); err != nil {
			return pemRes{}, err
		}

		cert, err := svc.SignCSR(ctx, []byte(req.CSRPem))
		if err != nil {
			return pemRes{}, err
		}

		return pemRes{PEM: cert, issued: true}, nil
	}
}

func retrieveCAEndpoint(svc provision.CA) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		ca, err := svc.RetrieveCA(ctx)
		if err != nil {
			return pemRes{}, err
		}

		return pemRes{PEM: ca}, nil
	}
}
