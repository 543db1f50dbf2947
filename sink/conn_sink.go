package sink

import (
	"collab-lab/domain/event"
	"context"
)

// ConnSink is one connection's bounded outbound queue. The fanout worker
// pushes into it; the transport's write loop drains Events. A full buffer
// drops the event instead of blocking the serialization point, so a slow
// client only hurts itself.
type ConnSink struct {
	Events chan event.SessionEvent
}

func NewConnSink(bufferSize int) *ConnSink {
	return &ConnSink{Events: make(chan event.SessionEvent, bufferSize)}
}

// Consume is called by the fanout. It hands the event to the owning
// connection's write loop.
func (s *ConnSink) Consume(ctx context.Context, e event.SessionEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Backpressure: the client is not keeping up, drop.
		return nil
	}
}
