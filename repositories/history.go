//go:generate go run go.uber.org/mock/mockgen -source=history.go -destination=../mocks/mock_history_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
)

// IHistoryRepository archives applied edits and chat messages. It is the
// downstream persistence collaborator: the in-memory pending-op log never
// depends on it, and losing the archive never affects convergence.
type IHistoryRepository interface {
	StoreEdit(edit ArchivedEdit) error
	GetEdits(sessionID string, fromVersion int) ([]ArchivedEdit, error)
	StoreChatMessage(message ArchivedMessage) error
	GetChatMessages(sessionID string, cursor *string) ([]ArchivedMessage, *string, error)
	SearchChat(ctx context.Context, sessionID, terms string, limit int) ([]ArchivedMessage, error)
}

type HistoryRepository struct {
	db           *badger.DB
	index        *bluge.Writer
	log          *slog.Logger
	limitPerPage *int
}

func NewHistoryRepository(db *badger.DB, index *bluge.Writer, log *slog.Logger, limitPerPage *int) *HistoryRepository {
	return &HistoryRepository{db: db, index: index, log: log, limitPerPage: limitPerPage}
}

type ArchivedEdit struct {
	ID       string    `json:"id"`
	Session  string    `json:"sessionId"`
	Kind     string    `json:"kind"`
	Position int       `json:"position"`
	Content  string    `json:"content,omitempty"`
	Length   int       `json:"length,omitempty"`
	Author   string    `json:"authorId"`
	Version  int       `json:"version"`
	At       time.Time `json:"at"`
}

type ArchivedMessage struct {
	ID      string    `json:"id"`
	Session string    `json:"sessionId"`
	Author  string    `json:"authorId"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// StoreEdit persists an applied edit. The key embeds the zero-padded version
// so a prefix scan yields edits in application order.
func (r *HistoryRepository) StoreEdit(edit ArchivedEdit) error {
	key := fmt.Sprintf("edit:%s:%010d:%s", edit.Session, edit.Version, edit.ID)
	bytes, err := json.Marshal(edit)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetEdits returns archived edits with Version >= fromVersion, oldest first.
// Used by sync endpoints when a rejoining client is further behind than the
// in-memory log reaches.
func (r *HistoryRepository) GetEdits(sessionID string, fromVersion int) ([]ArchivedEdit, error) {
	var edits []ArchivedEdit
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("edit:%s:", sessionID))
		seekKey := []byte(fmt.Sprintf("edit:%s:%010d:", sessionID, fromVersion))

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var edit ArchivedEdit
				if err := json.Unmarshal(value, &edit); err != nil {
					return err
				}
				edits = append(edits, edit)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return edits, err
}

// StoreChatMessage persists a chat message and indexes its text.
// The key is formatted as "msg:{session}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding.
//  2. Prevent data loss by using the message id as a collision disconnector
//     if two messages arrive at the same nanosecond.
func (r *HistoryRepository) StoreChatMessage(message ArchivedMessage) error {
	key := fmt.Sprintf("msg:%s:%019d:%s", message.Session, message.At.UnixNano(), message.ID)
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	}); err != nil {
		return err
	}
	return r.indexChatMessage(message)
}

func (r *HistoryRepository) indexChatMessage(message ArchivedMessage) error {
	if r.index == nil {
		return nil
	}
	doc := bluge.NewDocument(message.ID).
		AddField(bluge.NewKeywordField("session_id", message.Session).StoreValue()).
		AddField(bluge.NewKeywordField("author_id", message.Author).StoreValue()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewStoredOnlyField("at", []byte(message.At.UTC().Format(time.RFC3339Nano))))
	return r.index.Update(doc.ID(), doc)
}

// GetChatMessages pages backwards through a session's chat, newest first.
// The returned cursor resumes the scan where the previous page stopped.
func (r *HistoryRepository) GetChatMessages(sessionID string, cursor *string) ([]ArchivedMessage, *string, error) {
	var messages []ArchivedMessage
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", sessionID)
		prefix := []byte(prefixStr)

		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitPerPage != nil && len(messages) == *r.limitPerPage {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *r.limitPerPage))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			err := item.Value(func(value []byte) error {
				var message ArchivedMessage
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// SearchChat runs a full-text query over a session's archived chat.
func (r *HistoryRepository) SearchChat(ctx context.Context, sessionID, terms string, limit int) ([]ArchivedMessage, error) {
	if r.index == nil {
		return nil, nil
	}
	reader, err := r.index.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(sessionID).SetField("session_id")).
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var messages []ArchivedMessage
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			return messages, nil
		}
		var message ArchivedMessage
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				message.ID = string(value)
			case "session_id":
				message.Session = string(value)
			case "author_id":
				message.Author = string(value)
			case "content":
				message.Content = string(value)
			case "at":
				if at, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					message.At = at
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
}
