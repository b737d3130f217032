// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/fleetforge/provision"
)

type signCSRReq struct {
	CSRPem string `json:"csr_pem"`
}

func (req signCSRReq) validate() error {
	if req.CSRPem == "" {
		return provision.ErrInvalidCSR
	}
	return nil
}

type retrieveCAReq struct{}
