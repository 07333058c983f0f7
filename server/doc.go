// Package server provides the HTTP server that carries event streams. It
// wraps Gin in a ServeMux and serves it over HTTP/1.1 and h2c, so browsers
// and HTTP/2 clients can hold many streams on one connection.
//
// The server follows the component pattern with lifecycle management,
// health endpoints and a net/http middleware chain.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin resource sharing
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /alive: liveness probe
//   - /ready: readiness probe
//   - /version: build information
package server
