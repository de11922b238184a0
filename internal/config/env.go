package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFile loads variables from .env or .env.local, stopping at the first
// file that parses. Existing process environment variables win.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", "file", envPath)
			return
		}
	}
}
