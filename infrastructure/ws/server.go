// Package ws is the websocket transport adapter. It owns one long-lived
// connection per user, feeds inbound frames to the collaboration service and
// drains the connection's sink back to the client. The core never sees
// websockets; it only sees EventSinks.
package ws

import (
	"collab-lab/auth"
	"collab-lab/domain"
	apperrors "collab-lab/errors"
	"collab-lab/observability"
	"collab-lab/repositories"
	"collab-lab/services"
	"collab-lab/sink"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type Server struct {
	log                  *slog.Logger
	service              services.ICollabService
	history              repositories.IHistoryRepository
	tokens               auth.TokenParser
	stats                *observability.Collector
	connectionBufferSize int
	validate             *validator.Validate
	upgrader             websocket.Upgrader
}

func NewServer(log *slog.Logger, service services.ICollabService,
	history repositories.IHistoryRepository, tokens auth.TokenParser,
	stats *observability.Collector, connectionBufferSize int) *Server {
	return &Server{
		log:                  log,
		service:              service,
		history:              history,
		tokens:               tokens,
		stats:                stats,
		connectionBufferSize: connectionBufferSize,
		validate:             validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			s.log.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.handleSocket)
	r.Methods(http.MethodGet).Path("/sessions/{session}").HandlerFunc(s.getSession)
	r.Methods(http.MethodGet).Path("/sessions/{session}/members").HandlerFunc(s.getMembers)
	r.Methods(http.MethodGet).Path("/sessions/{session}/edits").HandlerFunc(s.getEdits)
	r.Methods(http.MethodGet).Path("/sessions/{session}/chat").HandlerFunc(s.getChat)
	r.Methods(http.MethodGet).Path("/sessions/{session}/chat/search").HandlerFunc(s.searchChat)
	r.Methods(http.MethodGet).Path("/users/{user}/sessions").HandlerFunc(s.getUserSessions)
	r.Methods(http.MethodGet).Path("/stats").HandlerFunc(s.getStats)
	return r
}

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.stats.GetLatest())
}

// handleSocket authenticates the identity token, upgrades the connection and
// pumps frames both ways until the client goes away. Disconnection leaves
// every session the user belongs to, so membership never outlives the sink.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	user, err := s.tokens.Parse(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid identity token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Upgrade failed", "user_id", user.ID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connSink := sink.NewConnSink(s.connectionBufferSize)
	replies := make(chan OutboundFrame, s.connectionBufferSize)

	defer func() {
		cancel()
		s.service.DisconnectUser(context.Background(), user.ID)
		_ = conn.Close()
		s.log.Info("Client disconnected", "user_id", user.ID)
	}()

	// Single writer goroutine: gorilla connections allow one concurrent
	// writer, so broadcast events and request replies merge here.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-connSink.Events:
				if err := conn.WriteJSON(toOutboundFrame(evt)); err != nil {
					s.log.Debug("Write failed", "user_id", user.ID, "error", err)
					return
				}
			case frame := <-replies:
				if err := conn.WriteJSON(frame); err != nil {
					s.log.Debug("Write failed", "user_id", user.ID, "error", err)
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.reply(ctx, replies, errorFrame("", apperrors.ErrInvalidMessage))
			continue
		}
		if err := s.validate.Struct(frame); err != nil {
			s.reply(ctx, replies, errorFrame(frame.RequestID, apperrors.ErrInvalidMessage))
			continue
		}
		s.handleFrame(ctx, user, frame, connSink, replies)
	}
}

func (s *Server) handleFrame(ctx context.Context, user domain.User, frame InboundFrame,
	connSink *sink.ConnSink, replies chan OutboundFrame) {
	switch frame.Type {
	case "create":
		session, err := s.service.CreateSession(ctx, frame.DocumentID, user, frame.Settings, connSink)
		s.replyResult(ctx, replies, frame, "session", session, err)
	case "join":
		session, err := s.service.JoinSession(ctx, frame.SessionID, user, connSink)
		s.replyResult(ctx, replies, frame, "session", session, err)
	case "leave":
		err := s.service.LeaveSession(ctx, frame.SessionID, user.ID)
		s.replyResult(ctx, replies, frame, "ack", nil, err)
	case "edit":
		if frame.Edit == nil {
			s.reply(ctx, replies, errorFrame(frame.RequestID, apperrors.ErrInvalidMessage))
			return
		}
		applied, err := s.service.ApplyEdit(ctx, frame.SessionID, frame.Edit.toEdit(user.ID))
		s.replyResult(ctx, replies, frame, "ack", applied, err)
	case "cursor":
		if frame.Position == nil {
			s.reply(ctx, replies, errorFrame(frame.RequestID, apperrors.ErrInvalidMessage))
			return
		}
		err := s.service.UpdateCursor(ctx, frame.SessionID, user.ID, *frame.Position)
		s.replyResult(ctx, replies, frame, "ack", nil, err)
	case "selection":
		if frame.Range == nil {
			s.reply(ctx, replies, errorFrame(frame.RequestID, apperrors.ErrInvalidMessage))
			return
		}
		err := s.service.UpdateSelection(ctx, frame.SessionID, user.ID, *frame.Range)
		s.replyResult(ctx, replies, frame, "ack", nil, err)
	case "chat":
		messageID, err := s.service.SendChatMessage(ctx, frame.SessionID, user.ID, frame.Text)
		s.replyResult(ctx, replies, frame, "chat-sent", chatPayload{ID: messageID, Content: frame.Text}, err)
	}
}

func (s *Server) replyResult(ctx context.Context, replies chan OutboundFrame,
	frame InboundFrame, okType string, payload any, err error) {
	if err != nil {
		s.reply(ctx, replies, errorFrame(frame.RequestID, err))
		return
	}
	s.reply(ctx, replies, OutboundFrame{
		Type:      okType,
		SessionID: frame.SessionID,
		RequestID: frame.RequestID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) reply(ctx context.Context, replies chan OutboundFrame, frame OutboundFrame) {
	select {
	case <-ctx.Done():
	case replies <- frame:
	}
}

// errorFrame builds the error event routed back to the originating
// connection only. Errors are never broadcast.
func errorFrame(requestID string, err error) OutboundFrame {
	return OutboundFrame{
		Type:      "error",
		RequestID: requestID,
		Payload:   errorPayload{Code: codeOf(err), Message: err.Error()},
		Timestamp: time.Now().UTC(),
	}
}

func codeOf(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return "SessionNotFound"
	case errors.Is(err, apperrors.ErrSessionFull):
		return "SessionFull"
	case errors.Is(err, apperrors.ErrGuestNotAllowed):
		return "GuestNotAllowed"
	case errors.Is(err, apperrors.ErrNotMember):
		return "NotMember"
	case errors.Is(err, apperrors.ErrReadOnlyViolation):
		return "ReadOnlyViolation"
	case errors.Is(err, apperrors.ErrInvalidMessage):
		return "InvalidMessage"
	case errors.Is(err, apperrors.ErrSessionBusy):
		return "SessionBusy"
	default:
		return "Internal"
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrSessionFull):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrGuestNotAllowed), errors.Is(err, apperrors.ErrReadOnlyViolation),
		errors.Is(err, apperrors.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrSessionBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, session)
}

func (s *Server) getMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.service.GetActiveMembers(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, members)
}

// getEdits serves the archived edit history from a given version, the fetch
// side of the sync request sent to joiners.
func (s *Server) getEdits(w http.ResponseWriter, r *http.Request) {
	fromVersion := 0
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, apperrors.ErrInvalidMessage)
			return
		}
		fromVersion = parsed
	}
	edits, err := s.history.GetEdits(mux.Vars(r)["session"], fromVersion)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, edits)
}

func (s *Server) getChat(w http.ResponseWriter, r *http.Request) {
	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = &raw
	}
	messages, next, err := s.history.GetChatMessages(mux.Vars(r)["session"], cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"messages": messages, "cursor": next})
}

func (s *Server) searchChat(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		s.writeError(w, apperrors.ErrInvalidMessage)
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	messages, err := s.history.SearchChat(r.Context(), mux.Vars(r)["session"], terms, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, messages)
}

func (s *Server) getUserSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.GetUserSessions(r.Context(), mux.Vars(r)["user"]))
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Debug("Response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusOf(err))
	_ = json.NewEncoder(w).Encode(errorPayload{Code: codeOf(err), Message: err.Error()})
}
