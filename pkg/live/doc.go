// Package live serves a browser preview of a mounted view.
//
// A Hub hangs off a Scheduler. It records every document mutation as a
// path-addressed protocol.Op and, after each render pass, broadcasts the
// batch to connected viewers over a WebSocket. A viewer first receives a
// snapshot of the mount root, so it can join at any time.
//
// Routes:
//
//	GET /         the page, server-rendered from the last tree
//	GET /live.js  the viewer script
//	GET /ws       the frame stream
//	GET /healthz  liveness probe
//	GET /metrics  Prometheus metrics
//
// The document belongs to the scheduler's goroutine. The hub reads it only
// from functions handed to Scheduler.Dispatch, so Scheduler.Run must be
// running for pages and viewers to be served.
package live
