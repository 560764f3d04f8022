package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutMiddleware_Completes(t *testing.T) {
	handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[]`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/active-users", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `[]`, rr.Body.String())
}

func TestTimeoutMiddleware_ImplicitOK(t *testing.T) {
	handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/active-users", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{}`, rr.Body.String())
}

func TestTimeoutMiddleware_TimesOut(t *testing.T) {
	lateErr := make(chan error, 1)
	handler := TimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		// give the middleware time to answer before writing late
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("X-Late", "yes")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("late body"))
		lateErr <- err
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/rooms/u1", nil))

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Contains(t, rr.Body.String(), "request timeout")

	select {
	case err := <-lateErr:
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(time.Second):
		t.Fatal("handler never returned")
	}
	assert.NotContains(t, rr.Body.String(), "late body")
	assert.Empty(t, rr.Header().Get("X-Late"))
}
