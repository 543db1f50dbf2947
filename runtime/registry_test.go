package runtime

import (
	"collab-lab/contract"
	"collab-lab/domain/event"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s Sink) Consume(ctx context.Context, e event.SessionEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Session_One_User(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sessionID := uuid.NewString()
	sink := Sink{name: "u1"}

	// Given no user is connected
	// And no session exists
	req.Empty(registry.Sinks)
	req.Empty(registry.SessionMembers)

	// When a user subscribes a session
	registry.Subscribe(userID, sessionID, sink)

	// Then
	req.Len(registry.Sinks, 1)
	req.Equal(sink, registry.Sinks[userID])

	req.Len(registry.SessionMembers, 1)
	req.Contains(registry.SessionMembers[sessionID], userID)

	req.Len(registry.GetSinksForSession(sessionID, ""), 1)
	req.Contains(registry.GetSinksForSession(sessionID, ""), sink)
}

func TestRegistry_Subscribe_One_Session_Multiple_Users(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID1 := uuid.NewString()
	userID2 := uuid.NewString()
	sessionID := uuid.NewString()
	sink1 := Sink{name: "u1"}
	sink2 := Sink{name: "u2"}

	// When two users subscribe the same session
	registry.Subscribe(userID1, sessionID, sink1)
	registry.Subscribe(userID2, sessionID, sink2)

	// Then
	req.Len(registry.Sinks, 2)
	req.Len(registry.SessionMembers[sessionID], 2)
	req.ElementsMatch(registry.GetSinksForSession(sessionID, ""), []contract.EventSink{sink1, sink2})
}

func TestRegistry_GetSinksForSession_Excludes_Author(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	authorID := uuid.NewString()
	otherID := uuid.NewString()
	sessionID := uuid.NewString()
	authorSink := Sink{name: "author"}
	otherSink := Sink{name: "other"}

	registry.Subscribe(authorID, sessionID, authorSink)
	registry.Subscribe(otherID, sessionID, otherSink)

	// When resolving recipients for an event authored by authorID
	sinks := registry.GetSinksForSession(sessionID, authorID)

	// Then the author's own sink is skipped
	req.Len(sinks, 1)
	req.Contains(sinks, otherSink)
}

func TestRegistry_GetSinksForSession_Unknown_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.Nil(registry.GetSinksForSession(uuid.NewString(), ""))
}

func TestRegistry_Subscribe_Nil_Sink_Records_Membership_Only(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sessionID := uuid.NewString()

	// When a user subscribes without a connection
	registry.Subscribe(userID, sessionID, nil)

	// Then membership is tracked but no sink is registered
	req.Empty(registry.Sinks)
	req.Contains(registry.SessionMembers[sessionID], userID)
	req.Empty(registry.GetSinksForSession(sessionID, ""))
}

func TestRegistry_GetSinkForUser(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sink := Sink{name: "u1"}

	registry.Subscribe(userID, uuid.NewString(), sink)

	got, ok := registry.GetSinkForUser(userID)
	req.True(ok)
	req.Equal(sink, got)

	_, ok = registry.GetSinkForUser(uuid.NewString())
	req.False(ok)
}

func TestRegistry_Unsubscribe_Last_Member_Removes_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sessionID := uuid.NewString()

	registry.Subscribe(userID, sessionID, Sink{})

	// When the only member leaves
	registry.Unsubscribe(userID, sessionID)

	// Then nothing is left behind
	req.Empty(registry.SessionMembers)
	req.Empty(registry.Sinks)
}

func TestRegistry_Unsubscribe_Keeps_Sink_While_In_Another_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sessionID1 := uuid.NewString()
	sessionID2 := uuid.NewString()
	sink := Sink{name: "u1"}

	registry.Subscribe(userID, sessionID1, sink)
	registry.Subscribe(userID, sessionID2, sink)

	// When the user leaves one of two sessions
	registry.Unsubscribe(userID, sessionID1)

	// Then the connection survives for the remaining session
	req.Len(registry.Sinks, 1)
	req.ElementsMatch(registry.UserSessions(userID), []string{sessionID2})
}

func TestRegistry_UserSessions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	sessionID1 := uuid.NewString()
	sessionID2 := uuid.NewString()

	registry.Subscribe(userID, sessionID1, Sink{})
	registry.Subscribe(userID, sessionID2, nil)
	registry.Subscribe(uuid.NewString(), uuid.NewString(), Sink{})

	req.ElementsMatch(registry.UserSessions(userID), []string{sessionID1, sessionID2})
	req.Empty(registry.UserSessions(uuid.NewString()))
}
