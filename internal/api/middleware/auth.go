package middleware

import (
	"context"
	"net/http"

	"authbuddy/internal/common"
	"authbuddy/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

// AuthCookieName is the cookie carrying the access token.
const AuthCookieName = "auth-buddy"

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	EmailCtxKey    contextKey = "email"
	UsernameCtxKey contextKey = "username"
)

// TokenFromCookie extracts the raw token from the auth cookie, or returns ""
// when the cookie is absent.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Verifier decodes and validates the cookie token, putting it in the request
// context for Authenticator. Requests without a valid token still pass
// through; only Authenticator rejects them.
func Verifier(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return jwtauth.Verify(tokens.Auth(), TokenFromCookie)
}

// Authenticator rejects requests whose context holds no valid token. Missing,
// malformed, tampered and expired tokens all get the same response body.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}
		email, err := security.GetEmailFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}
		username, err := security.GetUsernameFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, EmailCtxKey, email)
		ctx = context.WithValue(ctx, UsernameCtxKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
