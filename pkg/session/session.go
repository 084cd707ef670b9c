// Package session wraps the cookie-backed session store used for
// authentication state and flash messages. The session holds a single
// user_id binding; everything else about the user is re-resolved from
// the database on each request.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/suteetoe/tripplanner/pkg/config"
)

const (
	sessionName = "tripplanner_session"
	userIDKey   = "user_id"
)

// Flash is a categorized one-shot notice surfaced on the next render.
type Flash struct {
	Category string
	Message  string
}

func init() {
	// Flashes are gob-encoded into the cookie.
	gob.Register(Flash{})
}

// Manager provides typed access to the cookie session.
type Manager struct {
	store sessions.Store
}

// NewManager builds a Manager over a signing-key cookie store.
func NewManager(cfg *config.SessionConfig) *Manager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// Middleware returns the echo session middleware backed by this store.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return session.Middleware(m.store)
}

func (m *Manager) get(c echo.Context) (*sessions.Session, error) {
	return session.Get(sessionName, c)
}

// UserID returns the authenticated user id bound to the session, if any.
func (m *Manager) UserID(c echo.Context) (uint, bool) {
	sess, err := m.get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Values[userIDKey].(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// SetUserID binds a user id to the session.
func (m *Manager) SetUserID(c echo.Context, userID uint) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.Values[userIDKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// Clear removes the user binding and any pending flashes.
func (m *Manager) Clear(c echo.Context) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	delete(sess.Values, userIDKey)
	sess.Flashes()
	return sess.Save(c.Request(), c.Response())
}

// AddFlash queues a categorized notice for the next rendered page.
func (m *Manager) AddFlash(c echo.Context, category, message string) error {
	sess, err := m.get(c)
	if err != nil {
		return err
	}
	sess.AddFlash(Flash{Category: category, Message: message})
	return sess.Save(c.Request(), c.Response())
}

// Flashes drains and returns all pending notices.
func (m *Manager) Flashes(c echo.Context) []Flash {
	sess, err := m.get(c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) > 0 {
		// Flashes() consumes them; persist the removal.
		_ = sess.Save(c.Request(), c.Response())
	}
	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
