package internal

import "github.com/oklog/ulid/v2"

// ULIDGenerator issues time-ordered unique ids for sessions, edits and chat
// messages. ULIDs from the same process sort by creation time, which keeps
// archive keys and logs naturally ordered.
type ULIDGenerator struct{}

func NewULIDGenerator() ULIDGenerator {
	return ULIDGenerator{}
}

func (ULIDGenerator) NewID() string {
	return ulid.Make().String()
}
