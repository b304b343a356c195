package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Client captures configuration for the storefront state engine.
type Client struct {
	RemoteBaseURL string
	SnapshotDir   string
}

// StubAPI captures configuration for the stub backend binary.
type StubAPI struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
}

// FromEnv builds a Client config from environment variables so callers stay lean.
// A .env file in the working directory is honored when present.
func FromEnv() Client {
	_ = godotenv.Load()

	baseURL := os.Getenv("ATELIER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	snapshotDir := os.Getenv("ATELIER_SNAPSHOT_DIR")
	if snapshotDir == "" {
		snapshotDir = ".atelier"
	}
	return Client{
		RemoteBaseURL: baseURL,
		SnapshotDir:   snapshotDir,
	}
}

// StubAPIFromEnv builds the stub backend config from environment variables.
// DatabaseURL empty means the in-memory stores are used.
func StubAPIFromEnv() StubAPI {
	_ = godotenv.Load()

	addr := os.Getenv("ATELIER_STUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	signingKey := os.Getenv("ATELIER_JWT_SIGNING_KEY")
	if signingKey == "" {
		// Development default, override in any real deployment.
		signingKey = "dev-secret-key-change-in-production"
	}
	return StubAPI{
		Addr:          addr,
		DatabaseURL:   os.Getenv("ATELIER_DATABASE_URL"),
		JWTSigningKey: signingKey,
	}
}
