package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	// Registers the generated API definitions with swag.
	_ "vpaura/backend/docs"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Chat      *ChatHandler
	Sessions  *SessionHandler
	Users     *UserHandler
	Documents *DocumentHandler
	Models    *ModelHandler
	// Metrics serves the Prometheus scrape endpoint; nil disables it.
	Metrics http.Handler
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Liveness check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// JSON routes get a timeout so a hung model call cannot pin a connection.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(120 * time.Second))

			r.Post("/chat", h.Chat.HandleChat)
			r.Post("/chat/completion", h.Chat.HandleCompletion)

			r.Post("/sessions", h.Sessions.HandleCreateSession)
			r.Get("/users/{userID}/sessions", h.Sessions.HandleListUserSessions)
			r.Get("/sessions/{sessionID}", h.Sessions.HandleGetSession)
			r.Patch("/sessions/{sessionID}", h.Sessions.HandleRenameSession)
			r.Delete("/sessions/{sessionID}", h.Sessions.HandleDeleteSession)
			r.Get("/sessions/{sessionID}/messages", h.Sessions.HandleListMessages)
			r.Get("/sessions/{sessionID}/checkpoints", h.Sessions.HandleListCheckpoints)

			r.Post("/users", h.Users.HandleCreateUser)
			r.Get("/users", h.Users.HandleListUsers)
			r.Get("/users/{userID}", h.Users.HandleGetUser)
			r.Get("/users/{userID}/documents", h.Documents.HandleListUserDocuments)

			r.Post("/documents", h.Documents.HandleCreateDocument)
			r.Get("/documents/{documentID}", h.Documents.HandleGetDocument)
			r.Delete("/documents/{documentID}", h.Documents.HandleDeleteDocument)

			r.Get("/models", h.Models.HandleModelInfo)
			r.Get("/settings", h.Models.HandleGetSettings)
			r.Put("/settings", h.Models.HandleUpdateSettings)
		})

		// Streaming routes hold the connection open and must not time out.
		r.Group(func(r chi.Router) {
			r.Post("/chat/stream", h.Chat.HandleChatStream)
		})
	})

	return r
}
