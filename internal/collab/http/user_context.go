package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/aussiebroadwan/collab/pkg/httpx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
)

type userCtxKey struct{}

// LoadUser resolves the token subject to a fresh user row. It must run
// after httpx.AuthnMiddleware. Invitation email matching uses this row, not
// the token claims.
func LoadUser(users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, ok := httpx.UserIDFromContext(ctx)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, collabsdk.ErrorCodeUnauthorized, "missing subject")
				return
			}

			u, err := users.GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					slogx.FromContext(ctx).Warn("token for unknown user")
					httpx.WriteError(w, http.StatusUnauthorized, collabsdk.ErrorCodeUnauthorized, "unknown user")
					return
				}
				writeServiceError(w, r, err, "load user")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userCtxKey{}, u)))
		})
	}
}

// currentUser is only valid behind LoadUser.
func currentUser(r *http.Request) domain.User {
	u, _ := r.Context().Value(userCtxKey{}).(domain.User)
	return u
}
