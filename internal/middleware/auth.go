package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/pkg/session"
	"github.com/suteetoe/tripplanner/prometheus"
)

// ContextUserKey is where the authenticated user is stored in the echo context.
const ContextUserKey = "current_user"

// Auth holds the dependencies of the session authentication guard.
type Auth struct {
	DB       *gorm.DB
	Sessions *session.Manager
}

// RequireLogin guards a route behind an authenticated session. The session
// user id is re-resolved against the database on every request: a session
// referencing a deleted user is cleared and redirected to login with a
// "session expired" notice.
func (a *Auth) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Track authentication attempts
		prometheus.AuthAttemptsCounter.Inc()

		userID, ok := a.Sessions.UserID(c)
		if !ok {
			log.Warn("Missing session user")
			prometheus.AuthErrorsCounter.Inc()
			return c.Redirect(http.StatusFound, "/login")
		}

		var user model.User
		if err := a.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The user was deleted while the session was still live.
				log.Warn("Session user no longer exists, clearing session",
					zap.Uint("user_id", userID))
				prometheus.AuthErrorsCounter.Inc()
				_ = a.Sessions.Clear(c)
				_ = a.Sessions.AddFlash(c, "warning", "Session expired. Please login again.")
				return c.Redirect(http.StatusFound, "/login")
			}
			log.Error("Failed to resolve session user", zap.Error(err))
			return err
		}

		// Increment successful auth counter
		prometheus.AuthSuccessCounter.Inc()

		// Store the resolved user in the context
		c.Set(ContextUserKey, &user)

		// Update logger with user information
		c.Set("logger", log.With(
			zap.Uint("user_id", user.ID),
			zap.String("email", user.Email),
		))

		// Call the next handler
		return next(c)
	}
}

// CurrentUser returns the user resolved by RequireLogin, or nil outside
// guarded routes.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextUserKey).(*model.User)
	return user
}
