package middleware

import (
	"net/http"

	"github.com/leyenda/storefront/internal/session"
)

// CookieName is the session cookie the storefront issues.
const CookieName = "storefront_session"

// Sessions loads the caller's session from the cookie, creating a new one
// (and setting the cookie) when it is missing or expired. The session is
// attached to the request context.
func Sessions(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session

			if c, err := r.Cookie(CookieName); err == nil {
				sess, _ = store.Get(c.Value)
			}
			if sess == nil {
				sess = store.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}
