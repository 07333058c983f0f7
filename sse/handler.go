package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/rx"
)

// Option configures a stream handler.
type Option func(*options)

type options struct {
	hub     *Hub
	log     *logger.Logger
	metrics *observability.Metrics
	topic   string
}

// WithHub registers each stream with hub.
func WithHub(hub *Hub) Option {
	return func(o *options) { o.hub = hub }
}

// WithLogger sets the handler's logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records dropped events on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTopic names the stream source in logs, metrics and spans.
func WithTopic(name string) Option {
	return func(o *options) { o.topic = name }
}

// Handler returns a gin handler that streams p to each request.
func Handler[T any](p *rx.Publisher[T], cfg Config, opts ...Option) gin.HandlerFunc {
	cfg.ApplyDefaults()
	o := options{topic: "stream"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("sse")
	}
	return func(c *gin.Context) {
		serve(c.Writer, c.Request, p, cfg, o)
	}
}

// serve runs one stream until the publisher completes, the client
// disconnects or the hub is stopped.
func serve[T any](w http.ResponseWriter, r *http.Request, p *rx.Publisher[T], cfg Config, o options) {
	log := o.log.WithFields(logger.Fields(logger.FieldTopic, o.topic))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("Streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Streams are long-lived; the server's WriteTimeout must not cut them.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("Could not disable write deadline", logger.ErrorFields("set_write_deadline", err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := NewClient(uuid.NewString(), cfg.Buffer, log)
	log = log.WithFields(logger.Fields(logger.FieldClientID, client.id))
	if o.hub != nil {
		if !o.hub.Register(client) {
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
			return
		}
		defer o.hub.Unregister(client)
	}

	ctx, span := observability.StartSpan(r.Context(), observability.SpanStream)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSubject, o.topic)
	observability.SetSpanAttribute(ctx, observability.AttrClientID, client.id)

	var dropped atomic.Int64
	sub := p.SubscribeContext(ctx,
		func(v T) {
			data, err := json.Marshal(v)
			if err != nil {
				log.Warn("Could not encode value", logger.ErrorFields("encode", err))
				return
			}
			if !client.send(frame{event: EventTypeMessage, data: data}) {
				dropped.Add(1)
				o.metrics.RecordDropped(ctx, o.topic, "buffer_full")
			}
		},
		client.complete,
	)
	defer sub.Cancel()

	connected, _ := json.Marshal(ConnectedEvent{ClientID: client.id})
	writeFrame(w, frame{event: EventTypeConnected, data: connected})
	flusher.Flush()
	log.Debug("Client connected", logger.Fields("remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(cfg.KeepAlive)
	defer keepAlive.Stop()

	delivered := 0
	defer func() {
		observability.SetSpanAttribute(ctx, observability.AttrDelivered, delivered)
		observability.SetSpanAttribute(ctx, observability.AttrDropped, dropped.Load())
	}()

	finish := func(comp rx.Completion) {
		// Values queued before the completion go out first.
	drain:
		for {
			select {
			case f := <-client.events:
				writeFrame(w, f)
				delivered++
			default:
				break drain
			}
		}
		writeFrame(w, completionFrame(comp))
		flusher.Flush()
		if comp.IsFailure() {
			observability.SetSpanError(ctx, comp.Err())
		}
		log.Debug("Stream completed", logger.Fields(logger.FieldEvent, comp.String()))
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug("Client disconnected", logger.Fields("reason", ctx.Err().Error()))
			return

		case <-client.closed:
			// A completion delivered just before the hub stopped still goes out.
			select {
			case comp := <-client.done:
				finish(comp)
			default:
				log.Debug("Stream closed by server")
			}
			return

		case f := <-client.events:
			writeFrame(w, f)
			flusher.Flush()
			delivered++

		case comp := <-client.done:
			finish(comp)
			return

		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func completionFrame(c rx.Completion) frame {
	if c.IsSuccess() {
		return frame{event: EventTypeComplete, data: []byte("{}")}
	}
	data, err := json.Marshal(errors.ResponseFor(c.Err()))
	if err != nil {
		data = []byte(`{"error":{"code":"INTERNAL_ERROR"}}`)
	}
	return frame{event: EventTypeError, data: data}
}

func writeFrame(w http.ResponseWriter, f frame) {
	_, _ = fmt.Fprintf(w, "event: %s\n", f.event)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", f.data)
}
