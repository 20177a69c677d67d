package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/jacok1ng/hackyeah-2025/internal/shared/auth"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/logger"
	"github.com/jacok1ng/hackyeah-2025/internal/shared/rider"
)

type contextKey string

const (
	ContextKeyRiderID    contextKey = "rider_id"
	ContextKeyRiderEmail contextKey = "rider_email"
	ContextKeyRiderRole  contextKey = "rider_role"
)

// JWTMiddleware validates the Bearer token and puts the rider identity
// into the request context
func JWTMiddleware(jwtService *auth.JWTService, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Error(logger.Entry{
					Action:  "jwt_validation_failed",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyRiderID, claims.RiderID)
			ctx = context.WithValue(ctx, ContextKeyRiderEmail, claims.Email)
			ctx = context.WithValue(ctx, ContextKeyRiderRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// AdminTierOnly rejects callers whose token role is not driver,
// dispatcher or admin. Must run after JWTMiddleware.
func AdminTierOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(ContextKeyRiderRole).(string)
		if !rider.ParseRole(role).AdminTier() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"insufficient role"}`))
			return
		}
		next.ServeHTTP(w, r)
	}
}

func riderIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRiderID).(string)
	return id
}

func riderRoleFromContext(ctx context.Context) rider.Role {
	role, _ := ctx.Value(ContextKeyRiderRole).(string)
	return rider.ParseRole(role)
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
