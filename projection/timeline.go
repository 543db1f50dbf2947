// Package projection builds local read models from observed session events.
// Handles ordering and accumulation only; it never emits events back.
package projection

import (
	"collab-lab/domain"
	"collab-lab/domain/event"
	"context"
	"sync"
	"time"
)

// EntryKind classifies one timeline entry.
type EntryKind string

const (
	EntryJoin EntryKind = "join"
	EntryLeft EntryKind = "left"
	EntryEdit EntryKind = "edit"
	EntryChat EntryKind = "chat"
)

// Entry is one row of a session's activity feed.
type Entry struct {
	Kind    EntryKind
	Author  string
	Content string
	Edit    *domain.Edit
	At      time.Time
}

// Timeline accumulates the activity of the sessions its owner belongs to.
// It implements contract.EventSink so it can be fed like any connection.
type Timeline struct {
	Owner string

	mu      sync.Mutex
	entries map[string][]Entry // map session -> ordered activity
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{
		Owner:   owner,
		entries: make(map[string][]Entry),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.SessionEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch evt := e.(type) {
	case event.UserJoined:
		t.append(evt.Session, Entry{Kind: EntryJoin, Author: evt.Author, At: evt.At})
	case event.UserLeft:
		t.append(evt.Session, Entry{Kind: EntryLeft, Author: evt.Author, At: evt.At})
	case event.EditApplied:
		edit := evt.Edit
		t.append(evt.Session, Entry{Kind: EntryEdit, Author: evt.Author, Edit: &edit, At: evt.At})
	case event.ChatMessagePosted:
		t.append(evt.Session, Entry{Kind: EntryChat, Author: evt.Author, Content: evt.Content, At: evt.At})
	}
	return nil
}

func (t *Timeline) append(sessionID string, entry Entry) {
	t.entries[sessionID] = append(t.entries[sessionID], entry)
}

// Entries returns a copy of one session's activity, oldest first.
func (t *Timeline) Entries(sessionID string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.entries[sessionID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
