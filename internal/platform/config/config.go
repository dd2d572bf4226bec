package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr               string
	PostgresDSN        string
	JWTSigningKey      string
	AssociationTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("DICOMGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("ASSOCIATION_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return Server{
		Addr:               addr,
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		JWTSigningKey:      jwtSigningKey,
		AssociationTimeout: timeout,
	}
}
