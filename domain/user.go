// Package domain contains core concepts of the collaboration system.
// This file defines User entities and their transient presence state.
// No runtime, network, or UI logic should be added here.
package domain

// Cursor is the last known caret position of a member.
// Last write wins, stale updates are harmless.
type Cursor struct {
	Position int `json:"position"`
}

// Selection is a half-open character range [Start, End).
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// User represents an already-authenticated participant.
// Identity fields are supplied by the caller; the core never authenticates.
// Color is assigned once per session membership.
type User struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	AvatarRef   string     `json:"avatarRef,omitempty"`
	Color       string     `json:"color,omitempty"`
	Cursor      *Cursor    `json:"cursor,omitempty"`
	Selection   *Selection `json:"selection,omitempty"`
}
