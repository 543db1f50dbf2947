package errors

import "fmt"

var (
	ErrSessionNotFound   = fmt.Errorf("session not found")
	ErrSessionFull       = fmt.Errorf("session full")
	ErrGuestNotAllowed   = fmt.Errorf("guests not allowed in this session")
	ErrNotMember         = fmt.Errorf("author is not a session member")
	ErrReadOnlyViolation = fmt.Errorf("session is read-only")
	ErrInvalidMessage    = fmt.Errorf("invalid message")
	ErrSessionBusy       = fmt.Errorf("session command buffer full")
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrNotStarted        = fmt.Errorf("orchestrator not started")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
)
