// Package component defines the lifecycle interfaces shared by long-running
// parts of an rxkit service, such as the topic bus and the HTTP server.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse order.
//
// # Interfaces
//
//   - Component: Name, Start, Stop and Health
//   - Describable: startup summary descriptions
//   - RouteProvider: HTTP routes served by a component
package component
