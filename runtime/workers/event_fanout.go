package workers

import (
	"collab-lab/contract"
	"collab-lab/domain/event"
	"context"
	"log/slog"
	"time"
)

// EventFanout is the broadcast dispatcher. It resolves the delivery sinks of
// a session's members (excluding the event author), or the single target of
// a directed event, and delivers best-effort with a per-sink timeout so one
// slow connection never stalls the pipeline. Delivery happens inline on the
// Run loop: a sink observes events in emission order, so a client applying
// remote edits in arrival order never sees versions out of sequence.
// Connection sinks drop on a full buffer instead of blocking; the timeout
// only bounds sinks that do real I/O.
//
// Permanent sinks (archive, metrics) receive every event regardless of
// membership. EventFanout provides no delivery, durability or retry
// guarantee; transport reliability is the transport's concern.
type EventFanout struct {
	log            *slog.Logger
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	events         chan event.SessionEvent
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger, permanentSinks []contract.EventSink,
	registry contract.IRegistry, events chan event.SessionEvent,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		permanentSinks: permanentSinks,
		registry:       registry,
		events:         events,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout delivers one event to its recipients, one sink after another so
// per-sink ordering follows emission order. Failures are logged and dropped.
func (w *EventFanout) Fanout(ctx context.Context, evt event.SessionEvent) {
	sinks := w.recipients(evt)
	sinks = append(sinks, w.permanentSinks...)

	for _, sink := range sinks {
		deliverCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(deliverCtx, evt); err != nil {
			w.log.Debug("Sink delivery failed",
				"session_id", evt.SessionID(),
				"error", err)
		}
		cancel()
	}
}

func (w *EventFanout) recipients(evt event.SessionEvent) []contract.EventSink {
	if directed, ok := evt.(event.Directed); ok {
		if sink, found := w.registry.GetSinkForUser(directed.TargetID()); found {
			return []contract.EventSink{sink}
		}
		return nil
	}
	return w.registry.GetSinksForSession(evt.SessionID(), evt.AuthorID())
}
