package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aibox/internal/handlers"
	"aibox/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB        handlers.Pinger
	Chat      service.ChatService
	Knowledge service.KnowledgeService
	Models    service.ModelService
	Copilot   service.CopilotService
	Settings  service.SettingsService
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	chat := handlers.NewChatHandler(deps.Chat)
	knowledge := handlers.NewKnowledgeHandler(deps.Knowledge)
	models := handlers.NewModelsHandler(deps.Models)
	copilot := handlers.NewCopilotHandler(deps.Copilot)
	settings := handlers.NewSettingsHandler(deps.Settings)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB))

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settings.List)
			r.Put("/{key}", settings.Set)
			r.Delete("/{key}", settings.Delete)
		})

		r.Get("/models", models.List)
		r.Get("/models/copilot", models.ListCopilot)

		r.Route("/copilot", func(r chi.Router) {
			r.Post("/login", copilot.StartLogin)
			r.Post("/login/poll", copilot.PollLogin)
			r.Delete("/login", copilot.Logout)
			r.Get("/status", copilot.Status)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", chat.ListConversations)
			r.Post("/", chat.CreateConversation)
			r.Patch("/{id}", chat.RenameConversation)
			r.Delete("/{id}", chat.DeleteConversation)
			r.Get("/{id}/messages", chat.ListMessages)
			r.Post("/{id}/messages", chat.SendMessage)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", knowledge.ListDocuments)
			r.Post("/", knowledge.Ingest)
			r.Delete("/{id}", knowledge.DeleteDocument)
		})

		r.Post("/knowledge/search", knowledge.Search)
		r.Get("/knowledge/stats", knowledge.Stats)
	})

	return r
}
