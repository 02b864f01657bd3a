// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package supervisor runs Shelfwise's long-lived services under suture v4.

The tree has three layers so a failing background job cannot take the API
down with it:

	"shelfwise"
	├── "index-layer"
	│   └── IndexRefreshService (when the id-map cache is enabled)
	├── "stream-layer"
	│   └── WebSocketHubService (when metrics streaming is enabled)
	└── "api-layer"
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog on a slog.Logger backed by zerolog (see
logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{})
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
