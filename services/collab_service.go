//go:generate go run go.uber.org/mock/mockgen -source=collab_service.go -destination=../mocks/mock_collab_service.go -package=mocks
package services

import (
	"collab-lab/contract"
	"collab-lab/domain"
	"collab-lab/runtime"
	"context"
)

// ICollabService is the surface exposed to embedding systems (transports,
// admin tooling). Every failure is a typed error from the errors package;
// callers translate them into protocol-specific responses.
type ICollabService interface {
	CreateSession(ctx context.Context, documentID string, owner domain.User,
		settings *domain.SessionSettings, sink contract.EventSink) (domain.Session, error)
	JoinSession(ctx context.Context, sessionID string, user domain.User,
		sink contract.EventSink) (domain.Session, error)
	LeaveSession(ctx context.Context, sessionID, userID string) error
	ApplyEdit(ctx context.Context, sessionID string, edit domain.Edit) (domain.Edit, error)
	UpdateCursor(ctx context.Context, sessionID, userID string, position int) error
	UpdateSelection(ctx context.Context, sessionID, userID string, rng domain.Selection) error
	SendChatMessage(ctx context.Context, sessionID, authorID, text string) (string, error)
	GetSession(ctx context.Context, sessionID string) (domain.Session, error)
	GetActiveMembers(ctx context.Context, sessionID string) ([]domain.User, error)
	GetUserSessions(ctx context.Context, userID string) []domain.Session
	DisconnectUser(ctx context.Context, userID string)
}

// CollabService is a thin facade over the orchestrator. It exists so
// transports depend on a narrow interface rather than on runtime internals.
type CollabService struct {
	orchestrator *runtime.Orchestrator
}

func NewCollabService(o *runtime.Orchestrator) *CollabService {
	return &CollabService{orchestrator: o}
}

func (s *CollabService) CreateSession(ctx context.Context, documentID string, owner domain.User,
	settings *domain.SessionSettings, sink contract.EventSink) (domain.Session, error) {
	return s.orchestrator.CreateSession(ctx, documentID, owner, settings, sink)
}

func (s *CollabService) JoinSession(ctx context.Context, sessionID string, user domain.User,
	sink contract.EventSink) (domain.Session, error) {
	return s.orchestrator.JoinSession(ctx, sessionID, user, sink)
}

func (s *CollabService) LeaveSession(ctx context.Context, sessionID, userID string) error {
	return s.orchestrator.LeaveSession(ctx, sessionID, userID)
}

func (s *CollabService) ApplyEdit(ctx context.Context, sessionID string, edit domain.Edit) (domain.Edit, error) {
	return s.orchestrator.ApplyEdit(ctx, sessionID, edit)
}

func (s *CollabService) UpdateCursor(ctx context.Context, sessionID, userID string, position int) error {
	return s.orchestrator.UpdateCursor(ctx, sessionID, userID, position)
}

func (s *CollabService) UpdateSelection(ctx context.Context, sessionID, userID string, rng domain.Selection) error {
	return s.orchestrator.UpdateSelection(ctx, sessionID, userID, rng)
}

func (s *CollabService) SendChatMessage(ctx context.Context, sessionID, authorID, text string) (string, error) {
	return s.orchestrator.SendChatMessage(ctx, sessionID, authorID, text)
}

func (s *CollabService) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.orchestrator.GetSession(ctx, sessionID)
}

func (s *CollabService) GetActiveMembers(ctx context.Context, sessionID string) ([]domain.User, error) {
	return s.orchestrator.GetActiveMembers(ctx, sessionID)
}

func (s *CollabService) GetUserSessions(ctx context.Context, userID string) []domain.Session {
	return s.orchestrator.GetUserSessions(ctx, userID)
}

func (s *CollabService) DisconnectUser(ctx context.Context, userID string) {
	s.orchestrator.DisconnectUser(ctx, userID)
}
