package main

import (
	"collab-lab/auth"
	"collab-lab/domain"
	"collab-lab/infrastructure/ws"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"COLLAB_SERVER_ADDR,default=localhost:8080"`
	SessionID     string `env:"COLLAB_SESSION_ID"`
	UserID        string `env:"COLLAB_USER_ID,default=cli"`
	DisplayName   string `env:"COLLAB_DISPLAY_NAME,default=CLI"`
	Email         string `env:"COLLAB_EMAIL,default=cli@localhost"`
	JWTKey        string `env:"COLLAB_JWT_KEY,required=true"`
	LogLevel      string `env:"LOG_LEVEL,required=true"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v", err)
	}
	os.Exit(code)
}

// run handles the websocket client lifecycle: configuration loading, token
// minting, the optional session join and the event printing loop.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Mint an identity token with the shared signing key. The server only
	// trusts the query-string token, never a client-declared user id.
	token, err := auth.GenerateToken([]byte(config.JWTKey), domain.User{
		ID:          config.UserID,
		DisplayName: config.DisplayName,
		Email:       config.Email,
	}, 24*time.Hour)
	if err != nil {
		return exitConfig, fmt.Errorf("could not mint identity token: %w", err)
	}

	// 4. Dial the collaboration endpoint.
	target := url.URL{Scheme: "ws", Host: config.ServerAddress, Path: "/ws", RawQuery: "token=" + token}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	// Defer ensures the connection is closed even if the read loop fails later.
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// 5. Join the requested session, if any. Without one the client still
	// receives directed frames (sync, errors) for its own requests.
	if config.SessionID != "" {
		join := ws.InboundFrame{Type: "join", RequestID: "cli-join", SessionID: config.SessionID}
		if err := conn.WriteJSON(join); err != nil {
			return exitRuntime, fmt.Errorf("join failed: %w", err)
		}
	}

	log.Info("Connected, listening for session events (Ctrl+C to quit)",
		"server", config.ServerAddress, "session_id", config.SessionID)

	// Unblock the blocking read when a shutdown signal arrives.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	// 6. Event reception loop.
	for {
		var frame ws.OutboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			// Normal exit if the user triggered a shutdown.
			if ctx.Err() != nil {
				log.Info("Stopping client...")
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("read error: %w", err)
		}

		log.Info(fmt.Sprintf("[%s] %s %s: %v",
			frame.Timestamp.Format(time.TimeOnly),
			frame.Type,
			frame.AuthorID,
			frame.Payload,
		))
	}
}
