package runtime

import (
	"collab-lab/contract"
	"sync"
)

type Set map[string]struct{}

// Registry tracks connected users and session membership for the dispatcher.
// It maps each user to a single delivery sink regardless of how many sessions
// the user belongs to, so a connection is managed in one place.
type Registry struct {
	mu             sync.RWMutex
	Sinks          map[string]contract.EventSink // map user -> delivery sink
	SessionMembers map[string]Set                // map session -> users
}

func NewRegistry() *Registry {
	return &Registry{
		Sinks:          make(map[string]contract.EventSink),
		SessionMembers: make(map[string]Set),
	}
}

// GetSinksForSession resolves the delivery sinks of every session member
// except excludeUserID (the event author keeps its local copy).
// Returns nil if the session has no connected members.
func (r *Registry) GetSinksForSession(sessionID, excludeUserID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.SessionMembers[sessionID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for userID := range members {
		if userID == excludeUserID {
			continue
		}
		if sink, exists := r.Sinks[userID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// GetSinkForUser resolves a single user's sink, used for directed events.
func (r *Registry) GetSinkForUser(userID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.Sinks[userID]
	return sink, ok
}

// Subscribe registers a user's active connection and adds them to a session.
// A nil sink only records membership (useful for embedding systems that poll).
func (r *Registry) Subscribe(userID, sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sink != nil {
		r.Sinks[userID] = sink
	}

	if _, ok := r.SessionMembers[sessionID]; !ok {
		r.SessionMembers[sessionID] = make(Set)
	}
	r.SessionMembers[sessionID][userID] = struct{}{}
}

// Unsubscribe removes a user from a session and drops their sink once they
// belong to no session at all. Empty member sets are removed so destroyed
// sessions leave nothing behind.
func (r *Registry) Unsubscribe(userID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.SessionMembers[sessionID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(r.SessionMembers, sessionID)
		}
	}

	for _, members := range r.SessionMembers {
		if _, still := members[userID]; still {
			return
		}
	}
	delete(r.Sinks, userID)
}

// UserSessions lists the sessions a user currently belongs to.
func (r *Registry) UserSessions(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []string
	for sessionID, members := range r.SessionMembers {
		if _, ok := members[userID]; ok {
			sessions = append(sessions, sessionID)
		}
	}
	return sessions
}
