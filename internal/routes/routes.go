package routes

import (
	"net/http"

	"github.com/kazi-s/usermgmt/internal/app"
	"github.com/kazi-s/usermgmt/internal/handler"
	"github.com/kazi-s/usermgmt/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	users := handler.NewUsersHandler(app.UserService)

	mux := http.NewServeMux()

	// Auth - registration and login flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("GET /auth/confirm-email", auth.ConfirmEmail)
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))

	// Admin bulk actions, bearer token required
	mux.HandleFunc("GET /users", middleware.RequireAuth(users.List))
	mux.HandleFunc("POST /users/block", middleware.RequireAuth(users.Block))
	mux.HandleFunc("POST /users/unblock", middleware.RequireAuth(users.Unblock))
	mux.HandleFunc("POST /users/delete", middleware.RequireAuth(users.Delete))
	mux.HandleFunc("POST /users/delete-unverified", middleware.RequireAuth(users.DeleteUnverified))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.RequestLogging,
		middleware.Auth(app.AuthService, app.UserService),
	)

	return h
}
