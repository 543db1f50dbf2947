package event

import (
	"collab-lab/domain"
	"time"
)

// SessionEvent is the wire-level unit emitted to the dispatcher after every
// state-changing call. Events fan out to all session members except the
// author, unless the event is Directed.
type SessionEvent interface {
	SessionID() string
	AuthorID() string
	OccurredAt() time.Time
}

// Directed marks events delivered to a single member instead of being
// broadcast (e.g. the sync request sent to a joiner).
type Directed interface {
	TargetID() string
}

type UserJoined struct {
	Session string      `json:"sessionId"`
	Author  string      `json:"authorId"`
	User    domain.User `json:"user"`
	At      time.Time   `json:"timestamp"`
}

func (e UserJoined) SessionID() string     { return e.Session }
func (e UserJoined) AuthorID() string      { return e.Author }
func (e UserJoined) OccurredAt() time.Time { return e.At }

type UserLeft struct {
	Session string    `json:"sessionId"`
	Author  string    `json:"authorId"`
	At      time.Time `json:"timestamp"`
}

func (e UserLeft) SessionID() string     { return e.Session }
func (e UserLeft) AuthorID() string      { return e.Author }
func (e UserLeft) OccurredAt() time.Time { return e.At }

// SyncRequested tells the joiner to fetch the current document state and the
// latest applied version before submitting edits.
type SyncRequested struct {
	Session    string    `json:"sessionId"`
	Author     string    `json:"authorId"`
	Target     string    `json:"targetId"`
	DocumentID string    `json:"documentId"`
	Version    int       `json:"version"`
	At         time.Time `json:"timestamp"`
}

func (e SyncRequested) SessionID() string     { return e.Session }
func (e SyncRequested) AuthorID() string      { return e.Author }
func (e SyncRequested) TargetID() string      { return e.Target }
func (e SyncRequested) OccurredAt() time.Time { return e.At }

type CursorMoved struct {
	Session  string    `json:"sessionId"`
	Author   string    `json:"authorId"`
	Position int       `json:"position"`
	At       time.Time `json:"timestamp"`
}

func (e CursorMoved) SessionID() string     { return e.Session }
func (e CursorMoved) AuthorID() string      { return e.Author }
func (e CursorMoved) OccurredAt() time.Time { return e.At }

type SelectionChanged struct {
	Session string           `json:"sessionId"`
	Author  string           `json:"authorId"`
	Range   domain.Selection `json:"range"`
	At      time.Time        `json:"timestamp"`
}

func (e SelectionChanged) SessionID() string     { return e.Session }
func (e SelectionChanged) AuthorID() string      { return e.Author }
func (e SelectionChanged) OccurredAt() time.Time { return e.At }

type EditApplied struct {
	Session string      `json:"sessionId"`
	Author  string      `json:"authorId"`
	Edit    domain.Edit `json:"edit"`
	At      time.Time   `json:"timestamp"`
}

func (e EditApplied) SessionID() string     { return e.Session }
func (e EditApplied) AuthorID() string      { return e.Author }
func (e EditApplied) OccurredAt() time.Time { return e.At }

// ChatMessagePosted carries chat text after moderation. The sender keeps its
// local echo, so the dispatcher never delivers it back to the author.
type ChatMessagePosted struct {
	ID      string    `json:"id"`
	Session string    `json:"sessionId"`
	Author  string    `json:"authorId"`
	Content string    `json:"content"`
	At      time.Time `json:"timestamp"`
}

func (e ChatMessagePosted) SessionID() string     { return e.Session }
func (e ChatMessagePosted) AuthorID() string      { return e.Author }
func (e ChatMessagePosted) OccurredAt() time.Time { return e.At }
