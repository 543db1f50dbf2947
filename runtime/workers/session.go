package workers

import (
	"collab-lab/domain"
	"collab-lab/domain/event"
	"collab-lab/errors"
	"collab-lab/ot"
	"context"
	"log/slog"
	"time"
)

// SessionCommand wraps a domain command with its reply channel. The reply
// channel must be buffered (capacity 1) so the worker never blocks on it.
type SessionCommand struct {
	Cmd   domain.Command
	Reply chan SessionResult
}

// SessionResult is the synchronous outcome of one command. Fields are set
// depending on the command kind; Destroyed reports that the last member left
// and the session must be removed from the registry.
type SessionResult struct {
	Session   domain.Session
	Edit      domain.Edit
	Err       error
	Destroyed bool
}

// SessionWorker is the serialization point of one session. It owns the
// session state, the pending-op log and the version counter; every mutating
// call goes through its command channel and is processed in a single total
// order. Cross-session workers run fully in parallel.
type SessionWorker struct {
	session   *domain.Session
	history   *domain.OpLog
	version   int
	destroyed bool
	commands  chan SessionCommand
	stop      chan struct{}
	events    chan<- event.SessionEvent
	now       func() time.Time
	log       *slog.Logger
}

func NewSessionWorker(session *domain.Session, events chan<- event.SessionEvent,
	bufferSize int, log *slog.Logger) *SessionWorker {
	return &SessionWorker{
		session:  session,
		history:  domain.NewOpLog(),
		commands: make(chan SessionCommand, bufferSize),
		stop:     make(chan struct{}),
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// Commands exposes the mailbox. Senders must hold the orchestrator's handle
// lookup so no command is sent after the session was removed.
func (w *SessionWorker) Commands() chan SessionCommand {
	return w.commands
}

// Close signals that the orchestrator dropped the handle. Remaining buffered
// commands are drained with a not-found reply before the worker exits.
func (w *SessionWorker) Close() {
	close(w.stop)
}

func (w *SessionWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping session worker", "session_id", w.session.ID)
			return nil
		case <-w.stop:
			w.drain()
			return nil
		case sc, ok := <-w.commands:
			if !ok {
				return nil
			}
			// A close can race with a buffered command; once the handle is
			// dropped no command may be handled anymore.
			select {
			case <-w.stop:
				sc.Reply <- SessionResult{Err: errors.ErrSessionNotFound}
				w.drain()
				return nil
			default:
			}
			sc.Reply <- w.handle(ctx, sc.Cmd)
		}
	}
}

func (w *SessionWorker) drain() {
	for {
		select {
		case sc := <-w.commands:
			sc.Reply <- SessionResult{Err: errors.ErrSessionNotFound}
		default:
			return
		}
	}
}

func (w *SessionWorker) handle(ctx context.Context, cmd domain.Command) SessionResult {
	if w.destroyed {
		return SessionResult{Err: errors.ErrSessionNotFound}
	}
	switch c := cmd.(type) {
	case domain.JoinCommand:
		return w.join(ctx, c)
	case domain.LeaveCommand:
		return w.leave(ctx, c)
	case domain.ApplyEditCommand:
		return w.applyEdit(ctx, c)
	case domain.UpdateCursorCommand:
		return w.updateCursor(ctx, c)
	case domain.UpdateSelectionCommand:
		return w.updateSelection(ctx, c)
	case domain.ChatCommand:
		return w.chat(ctx, c)
	case domain.SnapshotCommand:
		return SessionResult{Session: w.session.Snapshot()}
	default:
		w.log.Warn("Unknown session command", "session_id", w.session.ID)
		return SessionResult{Err: errors.ErrInvalidMessage}
	}
}

func (w *SessionWorker) join(ctx context.Context, c domain.JoinCommand) SessionResult {
	if _, already := w.session.Members[c.User.ID]; already {
		// Re-join of a current member keeps its color and emits nothing.
		return SessionResult{Session: w.session.Snapshot()}
	}
	if len(w.session.Members) >= w.session.Settings.MaxMembers {
		return SessionResult{Err: errors.ErrSessionFull}
	}
	if !w.session.Settings.AllowGuests && c.User.Email == "" {
		return SessionResult{Err: errors.ErrGuestNotAllowed}
	}

	user := c.User
	user.Color = domain.ColorAt(len(w.session.Members))
	w.session.Members[user.ID] = user

	now := w.now()
	w.emit(ctx, event.UserJoined{Session: w.session.ID, Author: user.ID, User: user, At: now})
	w.emit(ctx, event.SyncRequested{
		Session:    w.session.ID,
		Author:     user.ID,
		Target:     user.ID,
		DocumentID: w.session.DocumentID,
		Version:    w.version,
		At:         now,
	})
	return SessionResult{Session: w.session.Snapshot()}
}

func (w *SessionWorker) leave(ctx context.Context, c domain.LeaveCommand) SessionResult {
	if _, ok := w.session.Members[c.UserID]; !ok {
		return SessionResult{}
	}
	delete(w.session.Members, c.UserID)
	w.emit(ctx, event.UserLeft{Session: w.session.ID, Author: c.UserID, At: w.now()})

	if len(w.session.Members) == 0 {
		w.destroyed = true
		return SessionResult{Destroyed: true}
	}
	return SessionResult{}
}

// applyEdit is the transform step: the incoming edit is rewritten against
// every applied edit its submitter had not yet seen, oldest first, then gets
// the next version and joins the log.
func (w *SessionWorker) applyEdit(ctx context.Context, c domain.ApplyEditCommand) SessionResult {
	if _, ok := w.session.Members[c.Edit.AuthorID]; !ok {
		return SessionResult{Err: errors.ErrNotMember}
	}
	if w.session.Settings.ReadOnly && c.Edit.AuthorID != w.session.OwnerID {
		return SessionResult{Err: errors.ErrReadOnlyViolation}
	}

	edit := c.Edit
	for _, applied := range w.history.Since(edit.BaseVersion) {
		edit = ot.Transform(edit, applied)
	}

	w.version++
	edit.Version = w.version
	w.history.Append(edit)

	w.emit(ctx, event.EditApplied{Session: w.session.ID, Author: edit.AuthorID, Edit: edit, At: w.now()})
	return SessionResult{Edit: edit}
}

func (w *SessionWorker) updateCursor(ctx context.Context, c domain.UpdateCursorCommand) SessionResult {
	member, ok := w.session.Members[c.UserID]
	if !ok {
		return SessionResult{}
	}
	member.Cursor = &domain.Cursor{Position: c.Position}
	w.session.Members[c.UserID] = member

	w.emit(ctx, event.CursorMoved{Session: w.session.ID, Author: c.UserID, Position: c.Position, At: w.now()})
	return SessionResult{}
}

func (w *SessionWorker) updateSelection(ctx context.Context, c domain.UpdateSelectionCommand) SessionResult {
	member, ok := w.session.Members[c.UserID]
	if !ok {
		return SessionResult{}
	}
	member.Selection = &c.Range
	w.session.Members[c.UserID] = member

	w.emit(ctx, event.SelectionChanged{Session: w.session.ID, Author: c.UserID, Range: c.Range, At: w.now()})
	return SessionResult{}
}

func (w *SessionWorker) chat(ctx context.Context, c domain.ChatCommand) SessionResult {
	w.emit(ctx, event.ChatMessagePosted{
		ID:      c.MessageID,
		Session: w.session.ID,
		Author:  c.AuthorID,
		Content: c.Content,
		At:      w.now(),
	})
	return SessionResult{}
}

func (w *SessionWorker) emit(ctx context.Context, e event.SessionEvent) {
	select {
	case <-ctx.Done():
	case w.events <- e:
	}
}
