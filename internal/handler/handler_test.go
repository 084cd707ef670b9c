package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/suteetoe/tripplanner/internal/middleware"
	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/config"
	"github.com/suteetoe/tripplanner/pkg/session"
	"github.com/suteetoe/tripplanner/pkg/storage"
	"github.com/suteetoe/tripplanner/pkg/view"
	"github.com/suteetoe/tripplanner/prometheus"
)

// testApp is a fully wired application over an in-memory database and a
// temp-dir file store, with a cookie jar carried across requests.
type testApp struct {
	t       *testing.T
	e       *echo.Echo
	db      *gorm.DB
	h       *Handler
	cookies map[string]*http.Cookie
}

func newApp(t *testing.T) *testApp {
	t.Helper()
	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return newAppWithStore(t, local)
}

func newAppWithStore(t *testing.T, store storage.Store) *testApp {
	t.Helper()

	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "test"}})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Trip{}, &model.Itinerary{}, &model.File{},
	))

	sessions := session.NewManager(&config.SessionConfig{Secret: "test-secret", MaxAge: 3600})
	h := NewHandler(db, sessions, store)
	auth := &middleware.Auth{DB: db, Sessions: sessions}

	e := echo.New()
	e.Renderer = view.New()
	e.Use(sessions.Middleware())

	e.GET("/", h.Home)
	e.GET("/healthz", h.Health)
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)
	e.GET("/trip/:id", h.ViewTrip)

	authed := e.Group("", auth.RequireLogin)
	authed.GET("/dashboard", h.Dashboard)
	authed.POST("/trip/add", h.AddTrip)
	authed.GET("/trip/:id/edit", h.EditTripForm)
	authed.POST("/trip/:id/edit", h.EditTrip)
	authed.POST("/trip/:id/delete", h.DeleteTrip)
	authed.POST("/trip/:id/itinerary/add", h.AddItinerary)
	authed.GET("/itinerary/:id/edit", h.EditItineraryForm)
	authed.POST("/itinerary/:id/edit", h.EditItinerary)
	authed.POST("/itinerary/:id/delete", h.DeleteItinerary)
	authed.POST("/trip/:id/upload", h.UploadFile)
	authed.POST("/file/:id/delete", h.DeleteFile)

	return &testApp{t: t, e: e, db: db, h: h, cookies: map[string]*http.Cookie{}}
}

// do performs a request, carrying and updating the cookie jar.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	a.t.Helper()
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		a.cookies[c.Name] = c
	}
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req)
}

// register creates a user directly in the database with a real hash.
func (a *testApp) register(firstName, email, password string) *model.User {
	a.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(a.t, err)
	user := &model.User{
		FirstName:    firstName,
		LastName:     "Tester",
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(a.t, a.db.Create(user).Error)
	return user
}

// login authenticates through the real login handler, populating the jar.
func (a *testApp) login(email, password string) {
	a.t.Helper()
	rec := a.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(a.t, http.StatusFound, rec.Code)
	require.Equal(a.t, "/dashboard", rec.Header().Get("Location"))
}

// createTrip inserts a trip row for a user.
func (a *testApp) createTrip(userID uint, destination string, start, end time.Time) *model.Trip {
	a.t.Helper()
	trip := &model.Trip{
		UserID:      userID,
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Notes:       "some notes",
	}
	require.NoError(a.t, a.db.Create(trip).Error)
	return trip
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
