package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/linesmerrill/relief-chat-api/models"
)

func TestNew(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("DELIVERY_DELAY", "250ms")
	t.Setenv("ESCALATION_ROLES", "admin,volunteer")

	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, "4000", conf.Port)
	assert.Equal(t, ":4000", conf.Addr())
	assert.Equal(t, 250*time.Millisecond, conf.DeliveryDelay)
	assert.Equal(t, []string{"admin", "volunteer"}, conf.EscalationRoles)
}

func TestNewDefaults(t *testing.T) {
	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, conf.DeliveryDelay)
	assert.Equal(t, 0, conf.MaxRoomHistory)
	assert.Equal(t, []string{"admin"}, conf.EscalationRoles)
	assert.Len(t, conf.Origins, 2)
}

func TestNewBadDuration(t *testing.T) {
	t.Setenv("DELIVERY_DELAY", "soon")

	_, err := New()
	assert.Error(t, err)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error it borked", resp.Response.Message)
	assert.Equal(t, "bad request", resp.Response.Error)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
