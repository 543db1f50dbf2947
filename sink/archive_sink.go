package sink

import (
	"collab-lab/domain/event"
	"collab-lab/repositories"
	"context"
	"log/slog"
)

// ArchiveSink is a permanent sink that feeds the history repository. Applied
// edits and moderated chat messages are archived; presence and membership
// events are transient and skipped.
type ArchiveSink struct {
	repository repositories.IHistoryRepository
	log        *slog.Logger
}

func NewArchiveSink(repository repositories.IHistoryRepository, log *slog.Logger) ArchiveSink {
	return ArchiveSink{repository: repository, log: log}
}

func (a ArchiveSink) Consume(_ context.Context, e event.SessionEvent) error {
	switch evt := e.(type) {
	case event.EditApplied:
		return a.repository.StoreEdit(toArchivedEdit(evt))
	case event.ChatMessagePosted:
		return a.repository.StoreChatMessage(toArchivedMessage(evt))
	default:
		return nil
	}
}

func toArchivedEdit(evt event.EditApplied) repositories.ArchivedEdit {
	return repositories.ArchivedEdit{
		ID:       evt.Edit.ID,
		Session:  evt.Session,
		Kind:     string(evt.Edit.Kind),
		Position: evt.Edit.Position,
		Content:  evt.Edit.Content,
		Length:   evt.Edit.Length,
		Author:   evt.Edit.AuthorID,
		Version:  evt.Edit.Version,
		At:       evt.At,
	}
}

func toArchivedMessage(evt event.ChatMessagePosted) repositories.ArchivedMessage {
	return repositories.ArchivedMessage{
		ID:      evt.ID,
		Session: evt.Session,
		Author:  evt.Author,
		Content: evt.Content,
		At:      evt.At,
	}
}
