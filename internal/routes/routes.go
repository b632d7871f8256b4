package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"groupchat-backend/internal/handlers"
	"groupchat-backend/internal/middleware"
	"groupchat-backend/internal/services"
)

// Handlers bundles the constructed handler set; main builds it once and
// passes it down (no package-level handler state).
type Handlers struct {
	Auth   *handlers.AuthHandler
	Group  *handlers.GroupHandler
	Ask    *handlers.AskHandler
	Upload *handlers.UploadHandler
	ChatWS *handlers.ChatWSHandler
}

// SetupRoutes wires all REST and realtime routes.
func SetupRoutes(r *chi.Mux, h Handlers, tokens *services.TokenService, loginLimiter *middleware.LoginLimiter) {
	requireAuth := middleware.RequireAuth(tokens)

	// Auth routes; credential endpoints get the per-IP attempt limiter
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Post("/user/signup", h.Auth.Signup)
		r.Post("/user/login", h.Auth.Login)
	})
	r.With(requireAuth).Post("/user/logout", h.Auth.Logout)

	// Group directory, chat log, presence, AI bridge
	r.Route("/group", func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/create", h.Group.Create)
		r.Post("/join", h.Group.Join)
		r.Get("/getGroups", h.Group.GetGroups)
		r.Delete("/delete", h.Group.Delete)

		r.Post("/chat/save", h.Group.SaveChat)
		r.Get("/chats/{groupName}", h.Group.GetChats)
		r.Get("/avatar/{groupName}", h.Group.GetAvatar)
		r.Get("/members/{groupName}", h.Group.GetMembers)

		r.Post("/online/add", h.Group.AddOnline)
		r.Post("/online/remove", h.Group.RemoveOnline)
		r.Get("/online/{groupName}", h.Group.GetOnline)

		r.Post("/askQuestion", h.Ask.AskQuestion)
	})

	// Avatar upload
	r.With(requireAuth).Post("/upload", h.Upload.Upload)

	// WebSocket endpoint for realtime group chat (token on handshake)
	r.Get("/ws/chat", h.ChatWS.Serve)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())
}
