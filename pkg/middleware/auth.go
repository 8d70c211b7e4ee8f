package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/projectdesk/projectdesk/pkg/auth"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/response"
)

// Identity is the authenticated caller, taken from the access token.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

type identityKey struct{}

// Authenticate rejects requests without a valid access token. The token is
// read from "Authorization: Bearer <token>", the accesstoken header, or the
// accesstoken query parameter (browsers cannot set headers on websockets).
func Authenticate(signer *auth.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := signer.ValidateToken(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			uid, _ := claims.UserID()

			ctx := WithIdentity(r.Context(), Identity{UserID: uid, Email: claims.Email, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if t := strings.TrimSpace(r.Header.Get("accesstoken")); t != "" {
		return t
	}
	return strings.TrimSpace(r.URL.Query().Get("accesstoken"))
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the caller stored by Authenticate.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r.Context())
	return id.Role, ok
}

func UserIDFromCtx(r *http.Request) (int64, bool) {
	id, ok := IdentityFromCtx(r.Context())
	return id.UserID, ok
}
