// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package services adapts Shelfwise components to suture.Service.

  - HTTPServerService: ListenAndServe with graceful Shutdown on cancel
  - WebSocketHubService: delegates to websocket.Hub.RunWithContext
  - IndexRefreshService: periodically pre-builds the id maps

Each wrapper implements fmt.Stringer so suture logs carry a service name.
Dependencies are expressed as small interfaces so this package does not
import the components it wraps.
*/
package services
