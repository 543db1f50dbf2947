// Package runtime wires the session workers, moderation and fanout together.
// It orchestrates the system without containing domain rules.
package runtime

import (
	"collab-lab/contract"
	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/errors"
	"collab-lab/moderation"
	"collab-lab/runtime/workers"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

//go:embed censored/*
var censoredFolder embed.FS

// Orchestrator owns the set of active sessions. Each session gets a dedicated
// worker goroutine (its serialization point); the orchestrator routes
// commands to it and manages its lifecycle. Events emitted by session workers
// flow through the moderation worker into the fanout.
type Orchestrator struct {
	mu              sync.RWMutex
	log             *slog.Logger
	sessions        map[string]*workers.SessionWorker
	permanentSinks  []contract.EventSink
	supervisor      contract.ISupervisor
	registry        contract.IRegistry
	ids             contract.IDGenerator
	rawEvents       chan event.SessionEvent
	events          chan event.SessionEvent
	bufferSize      int
	sinkTimeout     time.Duration
	charReplacement rune
	runCtx          context.Context
	stopRun         context.CancelFunc
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, ids contract.IDGenerator,
	bufferSize int, sinkTimeout time.Duration, charReplacement rune) *Orchestrator {
	return &Orchestrator{
		log:             log,
		sessions:        make(map[string]*workers.SessionWorker),
		supervisor:      supervisor,
		registry:        registry,
		ids:             ids,
		rawEvents:       make(chan event.SessionEvent, bufferSize),
		events:          make(chan event.SessionEvent, bufferSize),
		bufferSize:      bufferSize,
		sinkTimeout:     sinkTimeout,
		charReplacement: charReplacement,
	}
}

// Add registers permanent sinks (archive, metrics) that receive every event.
// Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Start prepares the moderation automaton and the fanout, then runs the
// supervisor. It blocks until the context is canceled.
func (o *Orchestrator) Start(ctx context.Context) error {
	moderationWorker, err := o.prepareModeration("censored", o.charReplacement)
	if err != nil {
		return err
	}
	fanout := workers.NewEventFanout(o.log, o.permanentSinks, o.registry, o.events, o.sinkTimeout)

	// Session workers are started dynamically under runCtx; deriving it here
	// lets Stop cancel them along with the supervised workers.
	runCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	o.runCtx = runCtx
	o.stopRun = cancel
	o.supervisor.Add(moderationWorker, fanout)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(runCtx)
	return nil
}

// prepareModeration loads the embedded censored words and builds the
// Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration(path string, charReplacement rune) (contract.Worker, error) {
	loader := NewCensoredLoader(censoredFolder)
	data, err := loader.LoadAll(path)
	if err != nil {
		return nil, err
	}

	o.log.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))

	moderator, err := moderation.NewModerator(data.Words, charReplacement)
	if err != nil {
		return nil, err
	}
	return workers.NewModerationWorker(moderator, o.rawEvents, o.events, o.log), nil
}

// Stop initiates a graceful shutdown of all supervised workers, session
// actors included.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.mu.RLock()
	cancel := o.stopRun
	o.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	o.supervisor.Stop()
}

// CreateSession registers the owner as sole member, starts the session's
// worker and subscribes the owner's sink. It has no failure mode beyond the
// orchestrator not running yet.
func (o *Orchestrator) CreateSession(_ context.Context, documentID string, owner domain.User,
	settings *domain.SessionSettings, sink contract.EventSink) (domain.Session, error) {
	applied := domain.DefaultSettings()
	if settings != nil {
		applied = *settings
		if applied.MaxMembers <= 0 {
			applied.MaxMembers = domain.DefaultMaxMembers
		}
	}

	id := o.ids.NewID()
	session := domain.NewSession(id, documentID, owner, applied, time.Now().UTC())
	snapshot := session.Snapshot()
	worker := workers.NewSessionWorker(session, o.rawEvents, o.bufferSize, o.log)

	o.mu.Lock()
	runCtx := o.runCtx
	if runCtx == nil {
		o.mu.Unlock()
		return domain.Session{}, errors.ErrNotStarted
	}
	o.sessions[id] = worker
	o.mu.Unlock()

	o.supervisor.Start(runCtx, worker)
	o.registry.Subscribe(owner.ID, id, sink)

	o.log.Info("Session created", "session_id", id, "document_id", documentID, "owner_id", owner.ID)
	return snapshot, nil
}

// JoinSession adds a member. The sink is subscribed before the command is
// processed so the directed sync request cannot outrun the registration;
// it is rolled back when the join is refused.
func (o *Orchestrator) JoinSession(ctx context.Context, sessionID string, user domain.User,
	sink contract.EventSink) (domain.Session, error) {
	o.registry.Subscribe(user.ID, sessionID, sink)
	res, err := o.dispatch(ctx, domain.JoinCommand{Session: sessionID, User: user})
	if err != nil {
		o.registry.Unsubscribe(user.ID, sessionID)
		return domain.Session{}, err
	}
	return res.Session, nil
}

// LeaveSession removes a member and destroys the session when the last one
// leaves. A missing session or member is a no-op.
func (o *Orchestrator) LeaveSession(ctx context.Context, sessionID, userID string) error {
	_, err := o.dispatch(ctx, domain.LeaveCommand{Session: sessionID, UserID: userID})
	o.registry.Unsubscribe(userID, sessionID)
	if err == errors.ErrSessionNotFound {
		return nil
	}
	return err
}

// ApplyEdit runs the transform step inside the session's serialization point
// and returns the versioned, transformed edit.
func (o *Orchestrator) ApplyEdit(ctx context.Context, sessionID string, edit domain.Edit) (domain.Edit, error) {
	if edit.ID == "" {
		edit.ID = o.ids.NewID()
	}
	res, err := o.dispatch(ctx, domain.ApplyEditCommand{Session: sessionID, Edit: edit})
	if err != nil {
		return domain.Edit{}, err
	}
	return res.Edit, nil
}

func (o *Orchestrator) UpdateCursor(ctx context.Context, sessionID, userID string, position int) error {
	_, err := o.dispatch(ctx, domain.UpdateCursorCommand{Session: sessionID, UserID: userID, Position: position})
	return err
}

func (o *Orchestrator) UpdateSelection(ctx context.Context, sessionID, userID string, rng domain.Selection) error {
	_, err := o.dispatch(ctx, domain.UpdateSelectionCommand{Session: sessionID, UserID: userID, Range: rng})
	return err
}

// SendChatMessage relays chat text with a generated id and timestamp. The
// sender keeps its local echo and is excluded from the broadcast.
func (o *Orchestrator) SendChatMessage(ctx context.Context, sessionID, authorID, text string) (string, error) {
	messageID := o.ids.NewID()
	_, err := o.dispatch(ctx, domain.ChatCommand{
		Session:   sessionID,
		AuthorID:  authorID,
		MessageID: messageID,
		Content:   text,
	})
	if err != nil {
		return "", err
	}
	return messageID, nil
}

// GetSession returns a consistent snapshot served through the serialization
// point.
func (o *Orchestrator) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	res, err := o.dispatch(ctx, domain.SnapshotCommand{Session: sessionID})
	if err != nil {
		return domain.Session{}, err
	}
	return res.Session, nil
}

func (o *Orchestrator) GetActiveMembers(ctx context.Context, sessionID string) ([]domain.User, error) {
	session, err := o.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return lo.Values(session.Members), nil
}

func (o *Orchestrator) GetUserSessions(ctx context.Context, userID string) []domain.Session {
	ids := o.registry.UserSessions(userID)
	var sessions []domain.Session
	for _, id := range ids {
		if session, err := o.GetSession(ctx, id); err == nil {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// DisconnectUser leaves every session the user belongs to. Transports call it
// when a connection dies so membership never outlives its delivery sink.
func (o *Orchestrator) DisconnectUser(ctx context.Context, userID string) {
	for _, sessionID := range o.registry.UserSessions(userID) {
		if err := o.LeaveSession(ctx, sessionID, userID); err != nil {
			o.log.Warn("Disconnect cleanup failed",
				"user_id", userID,
				"session_id", sessionID,
				"error", err)
		}
	}
}

// dispatch routes a command to its session worker and waits for the reply.
// The handle lookup and the mailbox send happen under the read lock so no
// command can be sent to a removed session.
func (o *Orchestrator) dispatch(ctx context.Context, cmd domain.Command) (workers.SessionResult, error) {
	o.mu.RLock()
	worker, ok := o.sessions[cmd.SessionID()]
	if !ok {
		o.mu.RUnlock()
		return workers.SessionResult{}, errors.ErrSessionNotFound
	}

	reply := make(chan workers.SessionResult, 1)
	select {
	case worker.Commands() <- workers.SessionCommand{Cmd: cmd, Reply: reply}:
		o.mu.RUnlock()
	default:
		o.mu.RUnlock()
		o.log.Warn(fmt.Sprintf("Command buffer full for session %s, dropping command", cmd.SessionID()))
		return workers.SessionResult{}, errors.ErrSessionBusy
	}

	select {
	case res := <-reply:
		if res.Destroyed {
			o.removeSession(cmd.SessionID())
		}
		return res, res.Err
	case <-ctx.Done():
		return workers.SessionResult{}, ctx.Err()
	}
}

func (o *Orchestrator) removeSession(sessionID string) {
	o.mu.Lock()
	worker, ok := o.sessions[sessionID]
	delete(o.sessions, sessionID)
	o.mu.Unlock()

	if ok {
		worker.Close()
		o.log.Info("Session destroyed", "session_id", sessionID)
	}
}
