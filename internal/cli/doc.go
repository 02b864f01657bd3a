// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package cli implements shelfctl, the operator command line for Shelfwise.

Local commands work without a running server:

	shelfctl token --secret $JWT_SECRET --user ops --role admin
	shelfctl seed --catalog /var/lib/shelfwise/catalog --file seed.json

Remote commands talk to the HTTP API selected by --server (SHELFWISE_URL):

	shelfctl recommend --user u42 --count 3
	shelfctl click --model content_based_recommend --user-index 7
	shelfctl metrics
	shelfctl reset
*/
package cli
