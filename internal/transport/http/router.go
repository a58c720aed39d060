package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/theom/scoreboard-api/internal/application/auth"
	"github.com/theom/scoreboard-api/internal/application/scoreboard"
	"github.com/theom/scoreboard-api/internal/application/session"
	"github.com/theom/scoreboard-api/internal/config"
	"github.com/theom/scoreboard-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/theom/scoreboard-api/internal/infrastructure/jwt"
	"github.com/theom/scoreboard-api/internal/infrastructure/resend"
	"github.com/theom/scoreboard-api/internal/infrastructure/whatsapp"
	"github.com/theom/scoreboard-api/internal/transport/http/handler"
	appmiddleware "github.com/theom/scoreboard-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	VerificationRepo *dynamo.VerificationRepo
	ScoreboardRepo   *dynamo.ScoreboardRepo
	EmailSender      *resend.Sender
	WhatsAppSender   *whatsapp.Sender
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10, applied to the code endpoints so a
	// single client cannot spray codes at an inbox.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		UserRepo:    deps.UserRepo,
		JWTProvider: deps.JWTProvider,
		Lifetime:    cfg.SessionLifetime,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		Store:          deps.VerificationRepo,
		Users:          deps.UserRepo,
		Sessions:       sessionSvc,
		EmailSender:    deps.EmailSender,
		WhatsAppSender: deps.WhatsAppSender,
		CodeTTL:        cfg.CodeTTL,
	})
	scoreboardSvc := scoreboard.NewService(scoreboard.ServiceDeps{Repo: deps.ScoreboardRepo})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	scoreboardH := handler.NewScoreboardHandler(scoreboardSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/{action}", authH.Action)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/scoreboard", scoreboardH.Get)
			r.Post("/scoreboard/{action}", scoreboardH.Action)
		})
	})

	return r
}
