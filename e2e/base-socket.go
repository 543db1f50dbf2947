package e2e

import (
	"collab-lab/auth"
	"collab-lab/domain"
	"collab-lab/infrastructure/ws"
	"collab-lab/internal"
	"collab-lab/observability"
	"collab-lab/repositories"
	"collab-lab/runtime"
	"collab-lab/runtime/workers"
	"collab-lab/services"
	"collab-lab/sink"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type BaseSocketSuite struct {
	suite.Suite
	Config Config

	baseURL      string
	httpServer   *httptest.Server
	orchestrator *runtime.Orchestrator
	cancel       context.CancelFunc
	db           *badger.DB
	blugeWriter  *bluge.Writer
}

// SetupSuite loads the environment configuration and, unless an external
// server is targeted, boots the full stack in-process: badger, bluge, the
// orchestrator and the websocket transport.
func (s *BaseSocketSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr != "" {
		s.baseURL = "http://" + s.Config.ServerAddr
		return
	}

	log := logs.GetLoggerFromLevel(slog.LevelWarn)

	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)

	s.blugeWriter, err = bluge.OpenWriter(bluge.DefaultConfig(s.T().TempDir()))
	s.Require().NoError(err)

	supervisor := workers.NewSupervisor(log, 200*time.Millisecond)
	history := repositories.NewHistoryRepository(s.db, s.blugeWriter, log, lo.ToPtr(50))
	s.orchestrator = runtime.NewOrchestrator(
		log, supervisor, runtime.NewRegistry(), internal.NewULIDGenerator(),
		1000, 3*time.Second, '*',
	)
	stats := observability.NewCollector(log)
	s.orchestrator.Add(sink.NewArchiveSink(history, log), stats)
	supervisor.Add(stats)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() { _ = s.orchestrator.Start(ctx) }()

	server := ws.NewServer(log, services.NewCollabService(s.orchestrator), history,
		auth.NewTokenParser([]byte(s.Config.JWTKey)), stats, 64)
	s.httpServer = httptest.NewServer(server.Router())
	s.baseURL = s.httpServer.URL

	// Waiting for the supervised workers to come up
	s.Require().Eventually(func() bool {
		resp, err := http.Get(s.baseURL + "/stats")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
}

func (s *BaseSocketSuite) TearDownSuite() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
	if s.orchestrator != nil {
		s.orchestrator.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.blugeWriter != nil {
		_ = s.blugeWriter.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Dial opens an authenticated websocket for the given user with logging and
// colors, mirroring what a real editor client does at startup.
func (s *BaseSocketSuite) Dial(name string, user domain.User) *SocketClient {
	// 1. Print a colorized header for the connection step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	// 2. Mint the identity token and dial the upgrade endpoint
	token, err := auth.GenerateToken([]byte(s.Config.JWTKey), user, time.Hour)
	s.Require().NoError(err)

	target := "ws" + strings.TrimPrefix(s.baseURL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	s.Require().NoError(err, "Failed to connect to websocket server at "+target)

	return &SocketClient{suite: s, conn: conn, name: user.DisplayName}
}

// SocketClient wraps one websocket connection with frame logging and
// expectation helpers.
type SocketClient struct {
	suite *BaseSocketSuite
	conn  *websocket.Conn
	name  string
}

func (c *SocketClient) Close() {
	_ = c.conn.Close()
}

func (c *SocketClient) Send(frame ws.InboundFrame) {
	if c.suite.Config.DebugJSON {
		raw, _ := json.MarshalIndent(frame, "", "  ")
		c.suite.T().Logf("%s >>> %s", c.name, raw)
	}
	c.suite.Require().NoError(c.conn.WriteJSON(frame))
}

// Expect reads frames until one of the wanted type arrives, skipping
// unrelated broadcast noise. An error frame fails the test unless errors are
// what the caller waits for.
func (c *SocketClient) Expect(frameType string) ws.OutboundFrame {
	deadline := time.Now().Add(5 * time.Second)
	c.suite.Require().NoError(c.conn.SetReadDeadline(deadline))

	for {
		var frame ws.OutboundFrame
		err := c.conn.ReadJSON(&frame)
		c.suite.Require().NoError(err, c.name+" timed out waiting for a '"+frameType+"' frame")

		if c.suite.Config.DebugJSON {
			raw, _ := json.MarshalIndent(frame, "", "  ")
			c.suite.T().Logf("%s <<< %s", c.name, raw)
		}

		if frame.Type == frameType {
			return frame
		}
		if frame.Type == "error" {
			c.suite.Require().Failf("unexpected error frame",
				"%s expected '%s' but got: %+v", c.name, frameType, frame.Payload)
		}
	}
}

// DecodePayload re-marshals a frame payload into a typed structure.
func (s *BaseSocketSuite) DecodePayload(frame ws.OutboundFrame, out any) {
	raw, err := json.Marshal(frame.Payload)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(raw, out))
}
