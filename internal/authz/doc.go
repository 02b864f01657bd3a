// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package authz provides role-based authorization for the catalog API
// using Casbin.
//
// # Model
//
// Requests are (role, path, action) triples. Paths are matched with
// keyMatch2 so "/api/v1/books/:id" covers every book. Actions are derived
// from the HTTP method:
//
//   - GET, HEAD, OPTIONS: read
//   - POST, PUT, PATCH: write
//   - DELETE: delete
//
// # Policy
//
// The embedded policy grants "user" read access to the catalog and "admin"
// every action. admin inherits user. A policy file can replace the
// embedded one via EnforcerConfig.PolicyPath.
//
// # Caching
//
// Decisions are cached per triple for CacheTTL. Policy mutations clear the
// cache.
package authz
