package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-reports/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// TokenFromCookie reads the dashboard session cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(jwt.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Verifier looks for the access token in the Authorization header first, then in the cookie.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)
}

// AuthRequired rejects requests without a valid, unrevoked access token.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(RawToken(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// RawToken returns the encoded token the request carried, if any.
func RawToken(r *http.Request) string {
	if token := jwtauth.TokenFromHeader(r); token != "" {
		return token
	}
	return TokenFromCookie(r)
}

// UserID returns the authenticated account id from the verified claims.
func UserID(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	id, ok := claims["user_id"].(string)
	return id, ok && id != ""
}
