package ot

import (
	"collab-lab/domain"
	"fmt"
)

// Apply replays an edit against a document snapshot. The engine itself never
// holds document content (persistence is the embedding system's concern);
// Apply exists for sync endpoints and for convergence checks in tests.
func Apply(doc string, e domain.Edit) (string, error) {
	switch e.Kind {
	case domain.EditInsert:
		if e.Position < 0 || e.Position > len(doc) {
			return "", fmt.Errorf("insert out of bounds: pos %d, doc len %d", e.Position, len(doc))
		}
		return doc[:e.Position] + e.Content + doc[e.Position:], nil
	case domain.EditDelete:
		if e.Position < 0 || e.Position+e.Length > len(doc) {
			return "", fmt.Errorf("delete out of bounds: pos %d, len %d, doc len %d", e.Position, e.Length, len(doc))
		}
		return doc[:e.Position] + doc[e.Position+e.Length:], nil
	case domain.EditReplace:
		if e.Position < 0 || e.Position+e.Length > len(doc) {
			return "", fmt.Errorf("replace out of bounds: pos %d, len %d, doc len %d", e.Position, e.Length, len(doc))
		}
		return doc[:e.Position] + e.Content + doc[e.Position+e.Length:], nil
	}
	return "", fmt.Errorf("unknown edit kind: %s", e.Kind)
}
