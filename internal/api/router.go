package api

import (
	"net/http"
	"time"

	"authbuddy/internal/api/handler"
	"authbuddy/internal/api/middleware"
	"authbuddy/internal/app/service"
	"authbuddy/internal/common/security"
	"authbuddy/web"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(
	logger zerolog.Logger,
	tokens *security.TokenManager,
	authService *service.AuthService,
	userService *service.UserService,
	cookieMaxAge time.Duration,
	secureCookies bool,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Decodes the auth cookie and puts claims in the context. Routes stay
	// public unless they also use middleware.Authenticator.
	r.Use(middleware.Verifier(tokens))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.LoginPage)
	})

	authHandler := handler.NewAuthHandler(authService, cookieMaxAge, secureCookies)
	r.Route("/auth", authHandler.RegisterRoutes)

	userHandler := handler.NewUserHandler(userService)
	r.Route("/users", userHandler.RegisterRoutes)

	return r
}
