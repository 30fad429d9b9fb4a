package config

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	JWTSecret    string
	SeedPassword string
	SessionTTL   time.Duration
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	sessionTTL := 12 * time.Hour
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			zap.S().Warnf("invalid SESSION_TTL %q, using default of %v", v, sessionTTL)
		} else {
			sessionTTL = d
		}
	}

	return &Config{
		URL:          os.Getenv("DB_URI"),
		DatabaseName: os.Getenv("DB_NAME"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         os.Getenv("PORT"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SeedPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		SessionTTL:   sessionTTL,
	}

}

// ErrorStatus is a useful function that will log, write http headers and the
// failure envelope for a given error code, status code and err
func ErrorStatus(code string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(code)
	WriteJSON(w, httpStatusCode, map[string]interface{}{"ok": false, "error": code})
}

// WriteJSON writes an envelope response with the given status code
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
