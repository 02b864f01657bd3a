// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package websocket streams live A/B metric snapshots to dashboards.

Key Components:

  - Hub: tracks connected clients and fans out broadcasts
  - Client: one connection with a read pump and a write pump
  - Handler: upgrades GET /api/v1/ws/metrics after an origin check

Every impression, click or reset produces a metrics_update message:

	{"type":"metrics_update","data":[
	  {"model":"collaborate_base_recommend","impressions":12,"clicks":3,"ctr":0.25},
	  {"model":"content_based_recommend","impressions":9,"clicks":0,"ctr":0}
	]}

A newly connected client receives the current snapshot immediately.
Clients may send {"type":"ping"} and receive {"type":"pong"}.

Slow clients whose send buffer is full are dropped rather than blocking
the broadcast.

The hub runs under suture via RunWithContext and closes every client when
its context ends.
*/
package websocket
