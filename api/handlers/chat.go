package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/relief-chat-api/api/directory"
	"github.com/linesmerrill/relief-chat-api/config"
)

// Chat exposes the read-only directory endpoints
type Chat struct {
	Directory *directory.Service
}

// RoomsHandler returns the rooms the user participates in
func (c Chat) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	b, err := json.Marshal(c.Directory.RoomsFor(userID))
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ActiveUsersHandler returns every identity with an open connection
func (c Chat) ActiveUsersHandler(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(c.Directory.ActiveUsers())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
