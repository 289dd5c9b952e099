package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nkarpovich/duet-backend/internal/config"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	feedsvc "github.com/nkarpovich/duet-backend/internal/services/feed"
	interactionssvc "github.com/nkarpovich/duet-backend/internal/services/interactions"
	matchessvc "github.com/nkarpovich/duet-backend/internal/services/matches"
	mediasvc "github.com/nkarpovich/duet-backend/internal/services/media"
	messagessvc "github.com/nkarpovich/duet-backend/internal/services/messages"
	profilessvc "github.com/nkarpovich/duet-backend/internal/services/profiles"
	ratesvc "github.com/nkarpovich/duet-backend/internal/services/rate"
	userssvc "github.com/nkarpovich/duet-backend/internal/services/users"
	"github.com/nkarpovich/duet-backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService        *authsvc.Service
	UserService        *userssvc.Service
	ProfileService     *profilessvc.Service
	FeedService        *feedsvc.Service
	InteractionService *interactionssvc.Service
	MatchService       *matchessvc.Service
	MessageService     *messagessvc.Service
	MediaService       *mediasvc.Service
	RateLimiter        *ratesvc.Limiter
	Logger             *zap.Logger
	Config             config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.UserService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.MediaService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	interactionHandler := handlers.NewInteractionHandler(deps.InteractionService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messageHandler := handlers.NewMessageHandler(deps.MessageService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	rateMW := RateLimitMiddleware(deps.RateLimiter, deps.Logger)

	r.Get("/healthz", healthHandler.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateMW)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Post("/verify", authHandler.Verify)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.With(authMW).Get("/me", profileHandler.Me)
			r.With(authMW).Put("/me", profileHandler.UpdateMe)
			r.With(authMW).Put("/me/details", profileHandler.UpdateDetails)
			r.With(authMW).Get("/explore/feed", feedHandler.Explore)
			r.Get("/{userId}", profileHandler.Public)
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/", interactionHandler.Create)
			r.Get("/user/{userId}", interactionHandler.ListWithUser)
			r.Get("/stats", interactionHandler.Stats)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/", matchesHandler.List)
			r.Get("/{matchId}", matchesHandler.Get)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/{matchId}", messageHandler.Send)
			r.Get("/{matchId}", messageHandler.List)
			r.Patch("/{messageId}/read", messageHandler.MarkRead)
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(authMW)
			r.Post("/avatar", mediaHandler.UploadAvatar)
			r.Post("/profile-photos", mediaHandler.UploadPhotos)
			r.Delete("/profile-photos/{photoId}", mediaHandler.DeletePhoto)
		})
	})
}
