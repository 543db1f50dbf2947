//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"collab-lab/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one member's delivery capability. Delivery is fire-and-forget;
// a sink must never block the caller longer than the context allows.
type EventSink interface {
	Consume(ctx context.Context, e event.SessionEvent) error
}

// IRegistry maps connected users to their sinks and sessions to their members.
type IRegistry interface {
	GetSinksForSession(sessionID, excludeUserID string) []EventSink
	GetSinkForUser(userID string) (EventSink, bool)
	Subscribe(userID, sessionID string, sink EventSink)
	Unsubscribe(userID, sessionID string)
	UserSessions(userID string) []string
}

// IDGenerator produces unique ids for sessions, edits and chat messages.
type IDGenerator interface {
	NewID() string
}
