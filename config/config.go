package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/models"
)

// Config holds the project config values
type Config struct {
	Port    string   `envconfig:"PORT" default:"3001"`
	BaseURL string   `envconfig:"BASE_URL"`
	Env     string   `envconfig:"ENV" default:"local"`
	Origins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	// DeliveryDelay is how long a message stays "sent" before the relay marks it delivered.
	DeliveryDelay   time.Duration `envconfig:"DELIVERY_DELAY" default:"100ms"`
	SendBuffer      int           `envconfig:"SEND_BUFFER" default:"64"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s"`
	PongWait        time.Duration `envconfig:"PONG_WAIT" default:"60s"`
	MaxMessageBytes int64         `envconfig:"MAX_MESSAGE_BYTES" default:"65536"`
	// MaxRoomHistory of 0 keeps every message for the process lifetime.
	MaxRoomHistory  int      `envconfig:"MAX_ROOM_HISTORY" default:"0"`
	EscalationRoles []string `envconfig:"ESCALATION_ROLES" default:"admin"`

	TypingTTL           time.Duration `envconfig:"TYPING_TTL" default:"10s"`
	TypingSweepInterval time.Duration `envconfig:"TYPING_SWEEP_INTERVAL" default:"5s"`
	StatsInterval       time.Duration `envconfig:"STATS_INTERVAL" default:"1m"`

	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// New sets up all config related services
func New() (*Config, error) {
	// a missing .env is fine, the real environment wins anyway
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	logger, err := setLogger(c.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	_ = zap.ReplaceGlobals(logger)

	return &c, nil
}

// Addr returns the listen address for the http server
func (c Config) Addr() string {
	return fmt.Sprintf(":%v", c.Port)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	resp := models.ErrorMessageResponse{Response: models.MessageError{Message: message}}
	if err != nil {
		resp.Response.Error = err.Error()
	}
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(resp)
	_, _ = w.Write(b)
}
