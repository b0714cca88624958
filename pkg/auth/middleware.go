package auth

import (
	"context"
	"net/http"

	"github.com/ciclexpress/website/pkg/flash"
)

// AdminChecker reports whether the given user id belongs to an administrator.
// Wired from the user repository in main.
type AdminChecker func(ctx context.Context, userID string) bool

// RequireAuth validates the session cookie and stores the user id in the
// request context. Unauthenticated requests are redirected to the login page
// with a flash error (the admin panel is server-rendered, not a JSON API).
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessionUserID(r, secret)
			if !ok {
				flash.Set(w, flash.Error, "Por favor, inicia sesión para acceder a esta página.")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RequireAdmin validates the session cookie and additionally requires the
// user to be an administrator. Non-admins are redirected to the login page.
func RequireAdmin(secret []byte, isAdmin AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessionUserID(r, secret)
			if !ok {
				flash.Set(w, flash.Error, "Por favor, inicia sesión para acceder a esta página.")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !isAdmin(r.Context(), userID) {
				flash.Set(w, flash.Error, "Acceso denegado. Solo administradores pueden realizar esta acción.")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			ctx := WithIsAdmin(WithUserID(r.Context(), userID), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession stores the user id in the context when a valid session cookie
// is present, and passes through anonymously otherwise. Used on pages that
// work for guests but attach the user when signed in.
func WithSession(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := sessionUserID(r, secret); ok {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionUserID(r *http.Request, secret []byte) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	userID, err := VerifySessionToken(cookie.Value, secret)
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}
