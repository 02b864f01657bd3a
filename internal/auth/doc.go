// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package auth validates HS256 bearer tokens for the catalog write
// endpoints.
//
// Tokens carry the user id in "sub" and the catalog role in "role". Login
// and credential storage live outside this service; operators mint tokens
// with `shelfctl token`.
//
// The recommendation, click and metrics endpoints are not authenticated.
package auth
