// Package sse streams an rx publisher to HTTP clients as Server-Sent Events.
//
// Each request gets its own subscription. Values are JSON encoded into
// "message" events; the completion becomes a "complete" event or an "error"
// event carrying the error response body. A bounded per-client buffer sits
// between the subscription and the connection, and values that do not fit
// are dropped with a warning.
//
// # Usage
//
//	hub := sse.NewHub()
//	router.GET("/events", sse.Handler(ticks.Publisher(), cfg, sse.WithHub(hub)))
//	registry.Register(sse.NewComponent(hub, "/events"))
//
// Stopping the component closes every open stream so the HTTP server can
// shut down.
package sse
