package domain

type EditKind string

const (
	EditInsert  EditKind = "insert"
	EditDelete  EditKind = "delete"
	EditReplace EditKind = "replace"
)

// Edit is a single text operation against the shared document.
// Position is a character offset. Content is set for Insert and Replace,
// Length for Delete and Replace. Version is assigned by the engine, never by
// the caller, and is strictly increasing per session. BaseVersion is the
// earliest version the submitter had not yet seen when it produced the edit.
// An Edit is immutable once applied.
type Edit struct {
	ID          string   `json:"id"`
	Kind        EditKind `json:"kind"`
	Position    int      `json:"position"`
	Content     string   `json:"content,omitempty"`
	Length      int      `json:"length,omitempty"`
	AuthorID    string   `json:"authorId"`
	Version     int      `json:"version"`
	BaseVersion int      `json:"baseVersion"`
}
