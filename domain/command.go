package domain

// Command is a mutating intent addressed to one session.
// Commands for the same session are processed in a single total order by the
// session worker.
type Command interface {
	SessionID() string
}

type JoinCommand struct {
	Session string
	User    User
}

func (c JoinCommand) SessionID() string { return c.Session }

type LeaveCommand struct {
	Session string
	UserID  string
}

func (c LeaveCommand) SessionID() string { return c.Session }

type ApplyEditCommand struct {
	Session string
	Edit    Edit
}

func (c ApplyEditCommand) SessionID() string { return c.Session }

type UpdateCursorCommand struct {
	Session  string
	UserID   string
	Position int
}

func (c UpdateCursorCommand) SessionID() string { return c.Session }

type UpdateSelectionCommand struct {
	Session string
	UserID  string
	Range   Selection
}

func (c UpdateSelectionCommand) SessionID() string { return c.Session }

type ChatCommand struct {
	Session   string
	AuthorID  string
	MessageID string
	Content   string
}

func (c ChatCommand) SessionID() string { return c.Session }

// SnapshotCommand is a read served through the serialization point so the
// returned copy is always consistent.
type SnapshotCommand struct {
	Session string
}

func (c SnapshotCommand) SessionID() string { return c.Session }
