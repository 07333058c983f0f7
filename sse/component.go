package sse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/rxkit/component"
)

// Component wraps a Hub as a lifecycle-managed component. Stopping it closes
// every open stream.
type Component struct {
	hub  *Hub
	path string
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a component for hub, serving at path.
func NewComponent(hub *Hub, path string) *Component {
	return &Component{hub: hub, path: path}
}

// Hub returns the underlying Hub.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start is a no-op; streams register as clients connect.
func (c *Component) Start(_ context.Context) error { return nil }

// Stop closes all streams.
func (c *Component) Stop(_ context.Context) error {
	c.hub.Stop()
	return nil
}

// Health returns the health status of the SSE hub.
func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.GetClientCount()),
	}
}

// Describe returns summary info for the startup log.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("Path: %s", c.path)
	if ids := c.hub.GetClientIDs(); len(ids) > 0 {
		sort.Strings(ids)
		details += ", clients: " + strings.Join(ids, " ")
	}
	return component.Description{
		Name:    "SSE Streams",
		Type:    "sse",
		Details: details,
	}
}
