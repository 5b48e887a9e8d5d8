package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kazi-s/usermgmt/internal/ctxkeys"
	"github.com/kazi-s/usermgmt/internal/repository"
	"github.com/kazi-s/usermgmt/internal/service"
)

// Auth resolves a bearer token to an account and stores it in the
// request context. The account state is re-read from the database on
// every request: a valid token for an account that has since been
// blocked or deleted is rejected here, which is the only enforcement
// point since issued tokens are stateless.
//
// Requests without an Authorization header pass through
// unauthenticated; per-route authorization is enforced by RequireAuth.
func Auth(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.VerifyJWT(token)
			if err != nil {
				// Invalid token, continue without identity
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(userID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					slog.Warn("authenticated user not found", "user_id", userID)
					writeUnauthorized(w, "ERROR: User not found. Please login again.")
					return
				}
				slog.Error("failed to load authenticated user", "user_id", userID, "error", err)
				writeUnauthorized(w, "ERROR: User not found. Please login again.")
				return
			}

			if user.IsBlocked() {
				slog.Warn("blocked user rejected", "user_id", userID)
				writeUnauthorized(w, "ERROR: Your account has been blocked.")
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures an authenticated account reached the handler
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			writeUnauthorized(w, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
