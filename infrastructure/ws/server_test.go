package ws

import (
	"collab-lab/auth"
	"collab-lab/domain"
	apperrors "collab-lab/errors"
	"collab-lab/mocks"
	"collab-lab/observability"
	"collab-lab/repositories"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testKey = []byte("ws-test-signing-key")

func dialSocket(serverURL, token string) (*websocket.Conn, *http.Response, error) {
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?token=" + token
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func newTestServer(t *testing.T) (*Server, *mocks.MockICollabService, *mocks.MockIHistoryRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	service := mocks.NewMockICollabService(ctrl)
	history := mocks.NewMockIHistoryRepository(ctrl)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(log, service, history, auth.NewTokenParser(testKey), observability.NewCollector(log), 8)
	return server, service, history
}

func TestServer_GetSession(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)

	session := domain.Session{ID: "s-1", DocumentID: "doc-1", OwnerID: "alice"}
	service.EXPECT().GetSession(gomock.Any(), "s-1").Return(session, nil)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/s-1", nil))

	req.Equal(http.StatusOK, recorder.Code)
	var got domain.Session
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &got))
	req.Equal(session.ID, got.ID)
	req.Equal(session.OwnerID, got.OwnerID)
}

func TestServer_GetSession_Not_Found(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)

	service.EXPECT().GetSession(gomock.Any(), "nope").Return(domain.Session{}, apperrors.ErrSessionNotFound)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/nope", nil))

	req.Equal(http.StatusNotFound, recorder.Code)
	var payload map[string]string
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &payload))
	req.Equal("SessionNotFound", payload["code"])
}

func TestServer_GetMembers(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)

	service.EXPECT().GetActiveMembers(gomock.Any(), "s-1").
		Return([]domain.User{{ID: "alice"}, {ID: "bob"}}, nil)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/s-1/members", nil))

	req.Equal(http.StatusOK, recorder.Code)
	var got []domain.User
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &got))
	req.Len(got, 2)
}

func TestServer_GetEdits_From_Version(t *testing.T) {
	req := require.New(t)
	server, _, history := newTestServer(t)

	history.EXPECT().GetEdits("s-1", 5).
		Return([]repositories.ArchivedEdit{{ID: "e1", Session: "s-1", Version: 5}}, nil)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/s-1/edits?from=5", nil))

	req.Equal(http.StatusOK, recorder.Code)
	var got []repositories.ArchivedEdit
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &got))
	req.Len(got, 1)
	req.Equal(5, got[0].Version)
}

func TestServer_GetEdits_Rejects_Bad_Version(t *testing.T) {
	req := require.New(t)
	server, _, _ := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/s-1/edits?from=potato", nil))

	req.Equal(http.StatusBadRequest, recorder.Code)
}

func TestServer_GetChat_Passes_Cursor(t *testing.T) {
	req := require.New(t)
	server, _, history := newTestServer(t)

	next := "next-cursor"
	history.EXPECT().GetChatMessages("s-1", gomock.Cond(func(c *string) bool {
		return c != nil && *c == "abc"
	})).Return([]repositories.ArchivedMessage{{ID: "m1"}}, &next, nil)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/s-1/chat?cursor=abc", nil))

	req.Equal(http.StatusOK, recorder.Code)
	var got struct {
		Messages []repositories.ArchivedMessage `json:"messages"`
		Cursor   *string                        `json:"cursor"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &got))
	req.Len(got.Messages, 1)
	req.Equal("next-cursor", *got.Cursor)
}

func TestServer_SearchChat_Requires_Query(t *testing.T) {
	req := require.New(t)
	server, _, _ := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sessions/s-1/chat/search", nil))

	req.Equal(http.StatusBadRequest, recorder.Code)
}

func TestServer_SearchChat(t *testing.T) {
	req := require.New(t)
	server, _, history := newTestServer(t)

	history.EXPECT().SearchChat(gomock.Any(), "s-1", "pipeline", 5).
		Return([]repositories.ArchivedMessage{{ID: "m1", Content: "pipeline broken"}}, nil)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder,
		httptest.NewRequest(http.MethodGet, "/sessions/s-1/chat/search?q=pipeline&limit=5", nil))

	req.Equal(http.StatusOK, recorder.Code)
}

func TestServer_GetUserSessions(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)

	service.EXPECT().GetUserSessions(gomock.Any(), "alice").
		Return([]domain.Session{{ID: "s-1"}})

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users/alice/sessions", nil))

	req.Equal(http.StatusOK, recorder.Code)
	var got []domain.Session
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &got))
	req.Len(got, 1)
}

func TestServer_GetStats(t *testing.T) {
	req := require.New(t)
	server, _, _ := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/stats", nil))

	req.Equal(http.StatusOK, recorder.Code)
	var stats observability.Stats
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &stats))
	req.Zero(stats.EditsApplied)
	req.Empty(stats.RecentActivity)
}

func TestServer_Socket_Rejects_Invalid_Token(t *testing.T) {
	req := require.New(t)
	server, _, _ := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil))

	req.Equal(http.StatusUnauthorized, recorder.Code)
}

func TestServer_Socket_Accepts_Signed_Token(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)

	service.EXPECT().DisconnectUser(gomock.Any(), "alice").AnyTimes()

	token, err := auth.GenerateToken(testKey, domain.User{ID: "alice", DisplayName: "Alice"}, time.Hour)
	req.NoError(err)

	httpServer := httptest.NewServer(server.Router())
	defer httpServer.Close()

	conn, resp, err := dialSocket(httpServer.URL, token)
	req.NoError(err)
	defer func() { _ = conn.Close() }()
	req.Equal(http.StatusSwitchingProtocols, resp.StatusCode)
}

func TestServer_Socket_Create_Round_Trip(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)

	session := domain.Session{ID: "s-1", DocumentID: "doc-1", OwnerID: "alice"}
	service.EXPECT().
		CreateSession(gomock.Any(), "doc-1", gomock.Cond(func(u domain.User) bool {
			return u.ID == "alice"
		}), gomock.Nil(), gomock.Any()).
		Return(session, nil)
	service.EXPECT().DisconnectUser(gomock.Any(), "alice").AnyTimes()

	token, err := auth.GenerateToken(testKey, domain.User{ID: "alice"}, time.Hour)
	req.NoError(err)

	httpServer := httptest.NewServer(server.Router())
	defer httpServer.Close()

	conn, _, err := dialSocket(httpServer.URL, token)
	req.NoError(err)
	defer func() { _ = conn.Close() }()

	// When the client asks for a session
	req.NoError(conn.WriteJSON(map[string]any{
		"type": "create", "requestId": "r-1", "documentId": "doc-1",
	}))

	// Then it receives the session reply addressed to its request
	var frame OutboundFrame
	req.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	req.NoError(conn.ReadJSON(&frame))
	req.Equal("session", frame.Type)
	req.Equal("r-1", frame.RequestID)
}

func TestServer_Socket_Invalid_Frame_Gets_Error_Reply(t *testing.T) {
	req := require.New(t)
	server, service, _ := newTestServer(t)
	service.EXPECT().DisconnectUser(gomock.Any(), "alice").AnyTimes()

	token, err := auth.GenerateToken(testKey, domain.User{ID: "alice"}, time.Hour)
	req.NoError(err)

	httpServer := httptest.NewServer(server.Router())
	defer httpServer.Close()

	conn, _, err := dialSocket(httpServer.URL, token)
	req.NoError(err)
	defer func() { _ = conn.Close() }()

	// When the client sends a frame failing validation
	req.NoError(conn.WriteJSON(map[string]any{"type": "join", "requestId": "r-2"}))

	// Then only this connection receives the error
	var frame OutboundFrame
	req.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	req.NoError(conn.ReadJSON(&frame))
	req.Equal("error", frame.Type)
	req.Equal("r-2", frame.RequestID)
}
