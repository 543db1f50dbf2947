package domain

const (
	// OpLogCap is the maximum number of applied edits retained per session.
	OpLogCap = 100
	// OpLogTrim is the number of most recent edits kept once the cap is hit.
	OpLogTrim = 50
)

// OpLog is the bounded history of recently applied edits, used as the basis
// for transforming delayed incoming edits. It is memory-resident only and
// owned by a single session worker; it is not safe for concurrent use.
type OpLog struct {
	entries []Edit
}

func NewOpLog() *OpLog {
	return &OpLog{}
}

// Append pushes an applied edit. Once the log exceeds the cap it is truncated
// to the most recent edits, keeping a recency bias while bounding memory.
func (l *OpLog) Append(e Edit) {
	l.entries = append(l.entries, e)
	if len(l.entries) > OpLogCap {
		kept := make([]Edit, OpLogTrim)
		copy(kept, l.entries[len(l.entries)-OpLogTrim:])
		l.entries = kept
	}
}

// Since returns the applied edits with Version >= version, oldest first.
// These are the edits the submitter of an incoming edit had not yet seen.
func (l *OpLog) Since(version int) []Edit {
	var out []Edit
	for _, e := range l.entries {
		if e.Version >= version {
			out = append(out, e)
		}
	}
	return out
}

func (l *OpLog) Len() int {
	return len(l.entries)
}
