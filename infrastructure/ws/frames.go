package ws

import (
	"collab-lab/domain"
	"collab-lab/domain/event"
	"time"
)

// InboundFrame is one client request over the socket. Type decides which
// fields matter; validation runs before anything reaches the service.
type InboundFrame struct {
	Type       string                  `json:"type" validate:"required,oneof=create join leave edit cursor selection chat"`
	RequestID  string                  `json:"requestId,omitempty"`
	SessionID  string                  `json:"sessionId,omitempty" validate:"required_unless=Type create"`
	DocumentID string                  `json:"documentId,omitempty"`
	Settings   *domain.SessionSettings `json:"settings,omitempty"`
	Edit       *EditFrame              `json:"edit,omitempty"`
	Position   *int                    `json:"position,omitempty"`
	Range      *domain.Selection       `json:"range,omitempty"`
	Text       string                  `json:"text,omitempty"`
}

// EditFrame is the client's view of an edit: no id, no version, author comes
// from the connection identity.
type EditFrame struct {
	Kind        string `json:"kind" validate:"required,oneof=insert delete replace"`
	Position    int    `json:"position" validate:"gte=0"`
	Content     string `json:"content,omitempty"`
	Length      int    `json:"length,omitempty" validate:"gte=0"`
	BaseVersion int    `json:"baseVersion" validate:"gte=0"`
}

func (f EditFrame) toEdit(authorID string) domain.Edit {
	return domain.Edit{
		Kind:        domain.EditKind(f.Kind),
		Position:    f.Position,
		Content:     f.Content,
		Length:      f.Length,
		AuthorID:    authorID,
		BaseVersion: f.BaseVersion,
	}
}

// OutboundFrame is the wire-level event shape handed to clients:
// {type, authorId, sessionId, payload, timestamp}.
type OutboundFrame struct {
	Type      string    `json:"type"`
	AuthorID  string    `json:"authorId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type cursorPayload struct {
	Position int `json:"position"`
}

type syncPayload struct {
	DocumentID string `json:"documentId"`
	Version    int    `json:"version"`
}

type chatPayload struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// toOutboundFrame flattens a session event into the wire shape.
func toOutboundFrame(e event.SessionEvent) OutboundFrame {
	frame := OutboundFrame{
		AuthorID:  e.AuthorID(),
		SessionID: e.SessionID(),
		Timestamp: e.OccurredAt(),
	}
	switch evt := e.(type) {
	case event.UserJoined:
		frame.Type = "join"
		frame.Payload = evt.User
	case event.UserLeft:
		frame.Type = "leave"
	case event.SyncRequested:
		frame.Type = "sync"
		frame.Payload = syncPayload{DocumentID: evt.DocumentID, Version: evt.Version}
	case event.CursorMoved:
		frame.Type = "cursor"
		frame.Payload = cursorPayload{Position: evt.Position}
	case event.SelectionChanged:
		frame.Type = "selection"
		frame.Payload = evt.Range
	case event.EditApplied:
		frame.Type = "edit"
		frame.Payload = evt.Edit
	case event.ChatMessagePosted:
		frame.Type = "chat"
		frame.Payload = chatPayload{ID: evt.ID, Content: evt.Content}
	default:
		frame.Type = "unknown"
	}
	return frame
}
