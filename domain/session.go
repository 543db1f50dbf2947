package domain

import "time"

const (
	DefaultMaxMembers = 10
)

// SessionSettings control membership and write access for one session.
type SessionSettings struct {
	MaxMembers  int  `json:"maxMembers"`
	AllowGuests bool `json:"allowGuests"`
	ReadOnly    bool `json:"readOnly"`
}

func DefaultSettings() SessionSettings {
	return SessionSettings{
		MaxMembers:  DefaultMaxMembers,
		AllowGuests: true,
		ReadOnly:    false,
	}
}

// Session is the scope within which a group of users edit one document.
// A session exists in the registry iff it has at least one member.
// Mutation goes through the session worker only; callers always receive
// snapshot copies.
type Session struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId"`
	OwnerID    string          `json:"ownerId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Settings   SessionSettings `json:"settings"`
	Members    map[string]User `json:"members"`
}

// NewSession registers the owner as the sole member and assigns the first
// palette color.
func NewSession(id, documentID string, owner User, settings SessionSettings, createdAt time.Time) *Session {
	owner.Color = ColorAt(0)
	return &Session{
		ID:         id,
		DocumentID: documentID,
		OwnerID:    owner.ID,
		CreatedAt:  createdAt,
		Settings:   settings,
		Members:    map[string]User{owner.ID: owner},
	}
}

// Snapshot returns a deep copy safe to hand out to any goroutine.
func (s *Session) Snapshot() Session {
	members := make(map[string]User, len(s.Members))
	for id, u := range s.Members {
		members[id] = u
	}
	copied := *s
	copied.Members = members
	return copied
}

func (s *Session) MemberIDs() []string {
	ids := make([]string, 0, len(s.Members))
	for id := range s.Members {
		ids = append(ids, id)
	}
	return ids
}
