package handlers

import (
	"fmt"
	"net/http"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/api"
	"github.com/linesmerrill/relief-chat-api/api/broadcast"
	"github.com/linesmerrill/relief-chat-api/api/directory"
	"github.com/linesmerrill/relief-chat-api/api/scheduler"
	"github.com/linesmerrill/relief-chat-api/config"
	"github.com/linesmerrill/relief-chat-api/databases"
	"github.com/linesmerrill/relief-chat-api/models"
)

// App stores the router and the in-memory stores, so they can be reused
type App struct {
	Router    *mux.Router
	Handler   http.Handler
	Config    config.Config
	Sessions  databases.SessionDatabase
	Rooms     databases.RoomDatabase
	Typing    databases.TypingDatabase
	Engine    *broadcast.Engine
	Metrics   *api.MetricsCollector
	Scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.Metrics.Middleware)

	handshake := api.NewHandshake(a.Sessions)
	socket := Socket{
		Engine:          a.Engine,
		Origins:         a.Config.Origins,
		SendBuffer:      a.Config.SendBuffer,
		WriteTimeout:    a.Config.WriteTimeout,
		PongWait:        a.Config.PongWait,
		MaxMessageBytes: a.Config.MaxMessageBytes,
	}
	chat := Chat{Directory: directory.New(a.Sessions, a.Rooms)}
	m := MetricsHandler{Metrics: a.Metrics}

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler)

	r.Handle("/ws", handshake.Middleware(http.HandlerFunc(socket.ServeWS))).Methods("GET")

	apiChat := r.PathPrefix("/api/chat").Subrouter()
	apiChat.Use(api.TimeoutMiddleware(a.Config.RequestTimeout))

	apiChat.HandleFunc("/rooms/{userId}", chat.RoomsHandler).Methods("GET")
	apiChat.HandleFunc("/active-users", chat.ActiveUsersHandler).Methods("GET")
	apiChat.HandleFunc("/metrics", m.GetMetrics).Methods("GET")

	return r
}

// Initialize is invoked by main to build the stores, the relay engine and the router
func (a *App) Initialize() error {
	escalation := make([]models.Role, 0, len(a.Config.EscalationRoles))
	for _, s := range a.Config.EscalationRoles {
		role, ok := models.ParseRole(s)
		if !ok {
			return fmt.Errorf("unknown escalation role %q", s)
		}
		escalation = append(escalation, role)
	}

	a.Sessions = databases.NewSessionDatabase()
	a.Rooms = databases.NewRoomDatabase(a.Config.MaxRoomHistory)
	a.Typing = databases.NewTypingDatabase()
	a.Metrics = api.NewMetricsCollector(1000)
	a.Engine = broadcast.NewEngine(a.Sessions, a.Rooms, a.Typing, broadcast.Options{
		DeliveryDelay:   a.Config.DeliveryDelay,
		EscalationRoles: escalation,
		Recorder:        a.Metrics,
	})
	a.Scheduler = scheduler.NewScheduler(a.Engine, a.Metrics, a.Config.TypingTTL, a.Config.TypingSweepInterval, a.Config.StatsInterval)
	zap.S().Infow("relief-chat-api stores ready", "escalationRoles", escalation, "maxRoomHistory", a.Config.MaxRoomHistory)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
	a.Handler = ghandlers.CORS(
		ghandlers.AllowedOrigins(a.Config.Origins),
		ghandlers.AllowedMethods([]string{"GET", "POST"}),
		ghandlers.AllowCredentials(),
	)(a.Router)
}
