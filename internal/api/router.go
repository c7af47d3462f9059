package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "roadmate/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the settings the router needs beyond its handlers.
type RouterConfig struct {
	// UploadDir is served read-only under /uploads.
	UploadDir string
	// RequestTimeout bounds every route except the chat turn, which enforces
	// its own deadline in the service layer.
	RequestTimeout time.Duration
}

// Handlers bundles everything NewRouter mounts.
type Handlers struct {
	Chat          *ChatHandler
	Auth          *AuthHandler
	User          *UserHandler
	Report        *ReportHandler
	Authenticator func(http.Handler) http.Handler
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request with useful info.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.UploadDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.UploadDir))
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Routes with a request timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Post("/report/submit", h.Report.SubmitReport)
		r.Get("/report/forum", h.Report.Forum)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticator)

			r.Get("/user/profile", h.User.GetProfile)
			r.Put("/user/profile", h.User.UpdateProfile)

			r.Get("/ai/conversations", h.Chat.ListConversations)
			r.Post("/ai/conversations", h.Chat.CreateConversation)
			r.Get("/ai/conversations/{conversationID}/history", h.Chat.GetHistory)
			r.Put("/ai/conversations/{conversationID}", h.Chat.RenameConversation)
			r.Delete("/ai/conversations/{conversationID}", h.Chat.DeleteConversation)

			r.With(RequireAdmin).Put("/report/{reportID}/status", h.Report.UpdateStatus)
		})
	})

	// The chat turn must NOT sit behind the middleware timeout: a cancelled
	// request context would abort a turn the provider is still answering.
	r.Group(func(r chi.Router) {
		r.Use(h.Authenticator)
		r.Post("/ai/chat", h.Chat.HandleChat)
	})

	return r
}
