package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// COLLAB_SERVER_ADDR targets an already running server; when empty the
	// suite starts its own in-process stack.
	ServerAddr string `envconfig:"COLLAB_SERVER_ADDR"`
	JWTKey     string `envconfig:"COLLAB_JWT_KEY" default:"e2e-signing-key"`
	// E2E_DEBUG_JSON allows dumping every websocket frame as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
