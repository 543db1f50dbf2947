package workers

import (
	"collab-lab/domain/event"
	"collab-lab/moderation"
	"context"
	"log/slog"
)

// ModerationWorker sits between the session workers and the fanout. Chat
// messages get their text censored before anyone sees them; every other
// session event passes through untouched.
type ModerationWorker struct {
	moderator moderation.Moderator
	rawEvents chan event.SessionEvent
	events    chan event.SessionEvent
	log       *slog.Logger
}

func NewModerationWorker(moderator moderation.Moderator,
	rawEvents, events chan event.SessionEvent, log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{
		moderator: moderator,
		rawEvents: rawEvents,
		events:    events,
		log:       log,
	}
}

func (w ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.rawEvents:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			if chat, isChat := e.(event.ChatMessagePosted); isChat {
				e = w.sanitize(chat)
			}
			select {
			case <-ctx.Done():
				w.log.Debug("Stopping worker")
				return ctx.Err()
			case w.events <- e:
			}
		}
	}
}

func (w ModerationWorker) sanitize(evt event.ChatMessagePosted) event.ChatMessagePosted {
	evt.Content = w.moderator.Censor(evt.Content)
	return evt
}
