// Copyright (c) FleetForge
// SPDX-License-Identifier: Apache-2.0

package http

import "net/http"

type pemRes struct {
	PEM    []byte
	issued bool
}

func (res pemRes) Code() int {
	return http.StatusOK
}

func (res pemRes) Headers() map[string]string {
	return map[string]string{}
}

func (res pemRes) Empty() bool {
	return len(res.PEM) == 0
}
