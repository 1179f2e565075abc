// http собирает REST API elas-no-jogo на chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/RickkCastro/ElasNoJogo/internal/metrics"
	"github.com/RickkCastro/ElasNoJogo/internal/service"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/handlers"
	"github.com/RickkCastro/ElasNoJogo/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics // может быть nil
	Timeout  time.Duration
	BasePath string // например, "/api/v1"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования, чтобы id попал в логгер
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
		middleware.AuthBearer(svc),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.Post("/auth/refresh", h.RefreshToken)
	r.Post("/auth/revoke", h.RevokeToken)
	r.Post("/auth/validate", h.ValidateToken)

	// публичное чтение (анонимно или с токеном)
	r.Get("/profiles/{id}", h.GetProfile)
	r.Get("/profiles/by-username/{username}", h.GetProfileByUsername)
	r.Get("/profiles/{id}/contacts", h.ListContacts)
	r.Get("/profiles/{id}/followers", h.Followers)
	r.Get("/profiles/{id}/following", h.Following)
	r.Get("/profiles/{id}/follow", h.FollowStats)
	r.Get("/profiles/{id}/videos", h.ListUserVideos)

	r.Get("/videos", h.ListVideos)
	r.Get("/videos/{id}", h.GetVideo)
	r.Get("/videos/{id}/like", h.LikeState)
	r.Post("/videos/{id}/views", h.CountView)

	r.Get("/locations", h.SearchLocations)

	// только для аутентифицированных
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		r.Post("/profiles", h.CompleteProfile)
		r.Patch("/profiles/me", h.UpdateProfile)
		r.Post("/profiles/me/avatar/presign", h.AvatarPresign)
		r.Post("/profiles/me/avatar/confirm", h.AvatarConfirm)
		r.Put("/profiles/me/contacts", h.ReplaceContacts)
		r.Post("/profiles/{id}/follow", h.ToggleFollow)

		r.Get("/feed/following", h.ListFollowingVideos)

		r.Post("/videos/presign", h.PresignVideo)
		r.Post("/videos", h.CreateVideo)
		r.Patch("/videos/{id}", h.UpdateVideo)
		r.Delete("/videos/{id}", h.DeleteVideo)
		r.Post("/videos/{id}/like", h.ToggleLike)
	})
}
