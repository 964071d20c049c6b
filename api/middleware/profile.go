package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/floracare/storefront/pkg/logger"
)

// ProfileCookieName carries the anonymous storefront profile between visits.
const ProfileCookieName = "floracare_profile"

const profileCookieMaxAge = 365 * 24 * time.Hour

// Profile resolves the profile identifier for the request, minting a new
// one when the browser arrives without a cookie. Every cart and checkout
// handler downstream keys its state on this identifier.
func Profile(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID := ""
			if cookie, err := r.Cookie(ProfileCookieName); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					profileID = cookie.Value
				}
			}

			if profileID == "" {
				profileID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ProfileCookieName,
					Value:    profileID,
					Path:     "/",
					MaxAge:   int(profileCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithProfileID(r.Context(), profileID)
			if logg != nil {
				ctx = logg.WithProfileID(ctx, profileID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
