// Package docs Relief Chat API.
//
// Documentation of the Relief Chat relay. Chat events travel over the /ws
// websocket, the routes below are the read-only directory.
//
//     Schemes: http, https
//     BasePath: /
//     Version: 1.0.0
//     Host: localhost:3001
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/relief-chat-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/chat/rooms/{userId} chat roomsByUserID
// Lists the rooms a user participates in, oldest first.
// responses:
//   200: roomsResponse

// The rooms of the given {userId}. unreadCount is always 0.
// swagger:response roomsResponse
type roomsResponseWrapper struct {
	// in:body
	Body []models.RoomSummary
}

// swagger:parameters roomsByUserID
type roomsParamsWrapper struct {
	// in:path
	UserID string `json:"userId"`
}

// swagger:route GET /api/chat/active-users chat activeUsers
// Lists every identity with an open connection.
// responses:
//   200: activeUsersResponse

// The online identities and their roles
// swagger:response activeUsersResponse
type activeUsersResponseWrapper struct {
	// in:body
	Body []models.ActiveUser
}

// swagger:route GET /api/chat/metrics metrics metricsDashboard
// Request timings and relay event counters.
// responses:
//   200: description: metrics summary
