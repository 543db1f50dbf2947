// Package ot implements the single-authority operational transform used by
// the session engine. It transforms one direction only: the serialization
// point rewrites each incoming edit against the already-applied edits its
// submitter had not yet seen. Convergence holds as long as a single process
// serializes all transforms for a session; this is not a distributed CRDT.
package ot

import "collab-lab/domain"

// Transform adjusts a so that it applies correctly after b has already been
// applied. a and b are never mutated; the transformed copy is returned.
func Transform(a, b domain.Edit) domain.Edit {
	switch b.Kind {
	case domain.EditInsert:
		return transformAgainstInsert(a, b)
	case domain.EditDelete:
		return transformAgainstDelete(a, b.Position, b.Length)
	case domain.EditReplace:
		// A replace acts as a delete followed by an insert at the same offset.
		a = transformAgainstDelete(a, b.Position, b.Length)
		b.Kind = domain.EditInsert
		return transformAgainstInsert(a, b)
	}
	return a
}

func transformAgainstInsert(a, b domain.Edit) domain.Edit {
	shift := len(b.Content)
	if a.Kind == domain.EditInsert {
		switch {
		case a.Position < b.Position:
			// unchanged
		case a.Position > b.Position:
			a.Position += shift
		default:
			// Same position: the lexicographically greater author loses and
			// shifts right, so both sides converge on the same order.
			if a.AuthorID > b.AuthorID {
				a.Position += shift
			}
		}
		return a
	}
	// Delete and Replace ranges shift right when the insert landed before them.
	if a.Position >= b.Position {
		a.Position += shift
	}
	return a
}

func transformAgainstDelete(a domain.Edit, pos, length int) domain.Edit {
	if a.Kind == domain.EditInsert {
		switch {
		case a.Position <= pos:
			// unchanged
		case a.Position > pos+length:
			a.Position -= length
		default:
			// Inside the deleted range: clamp to its start.
			a.Position = pos
		}
		return a
	}
	aEnd := a.Position + a.Length
	bEnd := pos + length
	switch {
	case aEnd <= pos:
		// Entirely before the applied delete.
	case bEnd <= a.Position:
		a.Position -= length
	default:
		// Ranges overlap: shrink by the overlap so text the applied delete
		// already removed is never deleted twice.
		overlap := minInt(aEnd, bEnd) - maxInt(a.Position, pos)
		a.Position = minInt(a.Position, pos)
		a.Length -= overlap
		if a.Length < 0 {
			a.Length = 0
		}
	}
	return a
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
