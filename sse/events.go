package sse

// Event type names written in the "event:" field.
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeMessage carries one JSON encoded value.
	EventTypeMessage = "message"

	// EventTypeComplete is sent when the publisher finishes.
	EventTypeComplete = "complete"

	// EventTypeError is sent when the publisher fails.
	EventTypeError = "error"
)

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	ClientID string `json:"client_id"`
}

// frame is one event ready to be written to the connection.
type frame struct {
	event string
	data  []byte
}
