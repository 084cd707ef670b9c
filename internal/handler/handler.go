package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suteetoe/tripplanner/internal/middleware"
	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/pkg/session"
	"github.com/suteetoe/tripplanner/pkg/storage"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Handler carries the request-scoped dependencies of every route: the
// database handle, the cookie session manager, and the file store.
type Handler struct {
	DB       *gorm.DB
	Sessions *session.Manager
	Store    storage.Store
}

// NewHandler creates a Handler with injected dependencies.
func NewHandler(db *gorm.DB, sessions *session.Manager, store storage.Store) *Handler {
	return &Handler{DB: db, Sessions: sessions, Store: store}
}

// render executes a page template with flashes and the session user merged
// into the template data.
func (h *Handler) render(c echo.Context, name, title string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["Title"] = title
	data["Flashes"] = h.Sessions.Flashes(c)
	if _, ok := data["User"]; !ok {
		data["User"] = middleware.CurrentUser(c)
	}
	return c.Render(http.StatusOK, name, data)
}

// flashRedirect queues a flash message and redirects.
func (h *Handler) flashRedirect(c echo.Context, category, message, target string) error {
	if err := h.Sessions.AddFlash(c, category, message); err != nil {
		logger.FromContext(c).Error("Failed to save flash", zap.Error(err))
	}
	return c.Redirect(http.StatusFound, target)
}

// authorizeTrip loads a trip and verifies it belongs to the session user.
// This is the single ownership guard used by every mutating trip-scoped
// route. When done is true the response has already been written.
func (h *Handler) authorizeTrip(c echo.Context, tripID uint, action string) (trip *model.Trip, done bool, err error) {
	log := logger.FromContext(c)

	var t model.Trip
	if err := h.DB.First(&t, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Trip not found", zap.Uint("trip_id", tripID))
			return nil, true, echo.NewHTTPError(http.StatusNotFound, "trip not found")
		}
		log.Error("Failed to load trip", zap.Uint("trip_id", tripID), zap.Error(err))
		return nil, true, err
	}

	user := middleware.CurrentUser(c)
	if user == nil || t.UserID != user.ID {
		log.Warn("Unauthorized trip access",
			zap.Uint("trip_id", tripID),
			zap.String("action", action))
		return nil, true, h.flashRedirect(c, "danger",
			"You are not authorized to "+action+" this trip.", "/dashboard")
	}
	return &t, false, nil
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).Uint(name, &id).BindError(); err != nil {
		return 0, err
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD form value.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// combineClock parses an HH:MM value and anchors it on the given date.
// An empty value yields nil: the corresponding timestamp stays unset.
func combineClock(date time.Time, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return nil, err
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location())
	return &combined, nil
}
