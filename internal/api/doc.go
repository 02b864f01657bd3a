// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package api serves the Shelfwise HTTP interface on a chi router.

Endpoints:

	POST   /api/v1/recommend        recommendations from a randomly assigned variant
	POST   /api/v1/click            click on a served recommendation
	POST   /api/v1/reset_metrics    zero every A/B counter
	GET    /metrics                 Prometheus exposition (CTR plus process metrics)
	GET    /api/v1/health           catalog counts, metrics backend, breaker states
	GET    /api/v1/ws/metrics       live metrics stream (websocket)
	GET    /api/v1/books[/{id}]     catalog reads
	POST   /api/v1/books            catalog write (admin JWT)
	DELETE /api/v1/books/{id}       catalog delete (admin JWT)

/api/v1/users follows the same shape as /api/v1/books.

The recommendation, click and metrics endpoints are unauthenticated. Only
catalog mutations pass through auth.Middleware and authz.Middleware.

Success bodies of the recommendation endpoints keep their bare shapes:

	{"recommendations":[{"item_id":"b1"}]}
	{"message":"Click tracked"}

Every error, and every catalog response, uses models.APIResponse.
*/
package api
