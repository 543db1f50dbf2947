package runtime

import (
	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/errors"
	"collab-lab/runtime/workers"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type seqIDGenerator struct {
	next int
}

func (g *seqIDGenerator) NewID() string {
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

type chanSink struct {
	events chan event.SessionEvent
}

func newChanSink() *chanSink {
	return &chanSink{events: make(chan event.SessionEvent, 32)}
}

func (s *chanSink) Consume(ctx context.Context, e event.SessionEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *chanSink) next(t *testing.T) event.SessionEvent {
	t.Helper()
	select {
	case e := <-s.events:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivered event")
		return nil
	}
}

func startOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := NewOrchestrator(log, workers.NewSupervisor(log, 20*time.Millisecond),
		NewRegistry(), &seqIDGenerator{}, 16, time.Second, '*')

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = orchestrator.Start(ctx) }()

	// Waiting for the supervised workers to come up
	require.Eventually(t, func() bool {
		_, err := orchestrator.CreateSession(ctx, "warmup-doc", domain.User{ID: "warmup"}, nil, nil)
		return err == nil
	}, time.Second, 10*time.Millisecond)
	return orchestrator
}

func TestOrchestrator_CreateSession_Before_Start(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := NewOrchestrator(log, workers.NewSupervisor(log, 20*time.Millisecond),
		NewRegistry(), &seqIDGenerator{}, 16, time.Second, '*')

	_, err := orchestrator.CreateSession(context.Background(), "doc", domain.User{ID: "owner"}, nil, nil)

	req.ErrorIs(err, errors.ErrNotStarted)
}

func TestOrchestrator_CreateSession_Applies_Default_Settings(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	// When a session is created without settings
	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)

	// Then the defaults apply and the owner is the sole member
	req.Equal(domain.DefaultSettings(), session.Settings)
	req.Equal("owner", session.OwnerID)
	req.Len(session.Members, 1)
	req.Equal(domain.ColorAt(0), session.Members["owner"].Color)
}

func TestOrchestrator_CreateSession_Sanitizes_Member_Limit(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)

	session, err := orchestrator.CreateSession(context.Background(), "doc-1",
		domain.User{ID: "owner"}, &domain.SessionSettings{MaxMembers: -1, AllowGuests: true}, nil)

	req.NoError(err)
	req.Equal(domain.DefaultMaxMembers, session.Settings.MaxMembers)
}

func TestOrchestrator_Join_Delivers_Events_To_Other_Members(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	ownerSink := newChanSink()
	joinerSink := newChanSink()

	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, ownerSink)
	req.NoError(err)

	// When a second user joins
	joined, err := orchestrator.JoinSession(ctx, session.ID, domain.User{ID: "alice", Email: "alice@collab.dev"}, joinerSink)
	req.NoError(err)
	req.Len(joined.Members, 2)

	// Then the owner sees the join
	userJoined, ok := ownerSink.next(t).(event.UserJoined)
	req.True(ok)
	req.Equal("alice", userJoined.User.ID)

	// And the joiner gets its directed sync request
	sync, ok := joinerSink.next(t).(event.SyncRequested)
	req.True(ok)
	req.Equal("alice", sync.TargetID())
	req.Equal("doc-1", sync.DocumentID)
}

func TestOrchestrator_Join_Unknown_Session_Rolls_Back_Subscription(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	_, err := orchestrator.JoinSession(ctx, "no-such-session", domain.User{ID: "alice"}, newChanSink())

	req.ErrorIs(err, errors.ErrSessionNotFound)
	req.Empty(orchestrator.GetUserSessions(ctx, "alice"))
}

func TestOrchestrator_ApplyEdit_Versions_And_Broadcasts(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	memberSink := newChanSink()
	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)
	_, err = orchestrator.JoinSession(ctx, session.ID, domain.User{ID: "alice", Email: "a@collab.dev"}, memberSink)
	req.NoError(err)
	// Skipping alice's own sync request
	_ = memberSink.next(t)

	// When the owner applies an edit
	applied, err := orchestrator.ApplyEdit(ctx, session.ID, domain.Edit{
		Kind: domain.EditInsert, Position: 0, Content: "hello", AuthorID: "owner", BaseVersion: 0,
	})
	req.NoError(err)

	// Then it is versioned, given an id and broadcast to the other member
	req.Equal(1, applied.Version)
	req.NotEmpty(applied.ID)

	evt, ok := memberSink.next(t).(event.EditApplied)
	req.True(ok)
	req.Equal(applied, evt.Edit)
}

func TestOrchestrator_ApplyEdit_Transforms_Concurrent_Inserts(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)
	_, err = orchestrator.JoinSession(ctx, session.ID, domain.User{ID: "alice"}, nil)
	req.NoError(err)
	_, err = orchestrator.JoinSession(ctx, session.ID, domain.User{ID: "bob"}, nil)
	req.NoError(err)

	// Given alice's insert landed first
	_, err = orchestrator.ApplyEdit(ctx, session.ID, domain.Edit{
		Kind: domain.EditInsert, Position: 5, Content: "A", AuthorID: "alice", BaseVersion: 0,
	})
	req.NoError(err)

	// When bob's concurrent insert at the same position arrives
	transformed, err := orchestrator.ApplyEdit(ctx, session.ID, domain.Edit{
		Kind: domain.EditInsert, Position: 5, Content: "B", AuthorID: "bob", BaseVersion: 0,
	})
	req.NoError(err)

	// Then bob's edit was shifted behind alice's
	req.Equal(6, transformed.Position)
	req.Equal(2, transformed.Version)
}

func TestOrchestrator_SendChatMessage_Is_Censored_Before_Delivery(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	memberSink := newChanSink()
	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)
	_, err = orchestrator.JoinSession(ctx, session.ID, domain.User{ID: "alice", Email: "a@collab.dev"}, memberSink)
	req.NoError(err)
	_ = memberSink.next(t) // alice's sync request

	// When the owner posts a message containing a censored word
	messageID, err := orchestrator.SendChatMessage(ctx, session.ID, "owner", "what an idiot move")
	req.NoError(err)
	req.NotEmpty(messageID)

	// Then the other member receives it sanitized
	posted, ok := memberSink.next(t).(event.ChatMessagePosted)
	req.True(ok)
	req.Equal(messageID, posted.ID)
	req.Equal("what an ***** move", posted.Content)
}

func TestOrchestrator_Leave_Last_Member_Destroys_Session(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)

	// When the only member leaves
	req.NoError(orchestrator.LeaveSession(ctx, session.ID, "owner"))

	// Then the session is gone
	_, err = orchestrator.GetSession(ctx, session.ID)
	req.ErrorIs(err, errors.ErrSessionNotFound)
	req.Empty(orchestrator.GetUserSessions(ctx, "owner"))

	// And leaving again is a no-op
	req.NoError(orchestrator.LeaveSession(ctx, session.ID, "owner"))
}

func TestOrchestrator_GetActiveMembers(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	session, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)
	_, err = orchestrator.JoinSession(ctx, session.ID, domain.User{ID: "alice", Email: "a@collab.dev"}, nil)
	req.NoError(err)

	members, err := orchestrator.GetActiveMembers(ctx, session.ID)

	req.NoError(err)
	req.Len(members, 2)
}

func TestOrchestrator_DisconnectUser_Leaves_All_Sessions(t *testing.T) {
	req := require.New(t)
	orchestrator := startOrchestrator(t)
	ctx := context.Background()

	first, err := orchestrator.CreateSession(ctx, "doc-1", domain.User{ID: "owner"}, nil, nil)
	req.NoError(err)
	second, err := orchestrator.CreateSession(ctx, "doc-2", domain.User{ID: "other"}, nil, nil)
	req.NoError(err)
	_, err = orchestrator.JoinSession(ctx, second.ID, domain.User{ID: "owner", Email: "o@collab.dev"}, nil)
	req.NoError(err)
	req.Len(orchestrator.GetUserSessions(ctx, "owner"), 2)

	// When the user's connection dies
	orchestrator.DisconnectUser(ctx, "owner")

	// Then they belong to no session anymore and their own session is destroyed
	req.Empty(orchestrator.GetUserSessions(ctx, "owner"))
	_, err = orchestrator.GetSession(ctx, first.ID)
	req.ErrorIs(err, errors.ErrSessionNotFound)

	// The other owner's session survives
	survived, err := orchestrator.GetSession(ctx, second.ID)
	req.NoError(err)
	req.Len(survived.Members, 1)
}

func TestOrchestrator_Stop_Stops_Session_Workers(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := NewOrchestrator(log, workers.NewSupervisor(log, 20*time.Millisecond),
		NewRegistry(), &seqIDGenerator{}, 16, time.Second, '*')

	started := make(chan struct{})
	go func() {
		_ = orchestrator.Start(context.Background())
		close(started)
	}()

	ctx := context.Background()
	require.Eventually(t, func() bool {
		_, err := orchestrator.CreateSession(ctx, "doc", domain.User{ID: "owner"}, nil, nil)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	// When the orchestrator is stopped while a session is active
	orchestrator.Stop()

	// Then the session actor releases the supervisor and Start returns
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		req.Fail("Session workers kept running after Stop")
	}
}
