// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package models holds the wire types shared by the HTTP API, the catalog
// store and the operator CLI.
package models

import "time"

// APIResponse is the envelope used by catalog endpoints and by every error
// response.
//
//	{"status":"error","error":{"code":"USER_NOT_MAPPED","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Total       int       `json:"total,omitempty"`
}

// APIError carries a machine-readable code and a human-readable reason.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse is the bare acknowledgement body of the click and reset
// endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
