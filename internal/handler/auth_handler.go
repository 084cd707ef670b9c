package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/suteetoe/tripplanner/internal/middleware"
	"github.com/suteetoe/tripplanner/internal/model"
	"github.com/suteetoe/tripplanner/pkg/logger"
	"github.com/suteetoe/tripplanner/prometheus"
)

// Home renders the landing page.
func (h *Handler) Home(c echo.Context) error {
	return h.render(c, "home", "Home", nil)
}

// RegisterForm renders the registration form.
func (h *Handler) RegisterForm(c echo.Context) error {
	return h.render(c, "register", "Register", nil)
}

// Register creates a new account. A duplicate email is rejected with no
// row written; on success the user is redirected to the login page.
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		FirstName string `form:"first_name"`
		LastName  string `form:"last_name"`
		Email     string `form:"email"`
		Password  string `form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return h.flashRedirect(c, "danger", "Invalid request.", "/register")
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		log.Warn("Incomplete registration data", zap.String("email", req.Email))
		return h.flashRedirect(c, "danger", "All fields are required.", "/register")
	}

	// Check if the email is already registered
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	if result := h.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		log.Warn("Email already registered", zap.String("email", req.Email))
		return h.flashRedirect(c, "danger", "Email already exists", "/register")
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return h.flashRedirect(c, "danger", "Registration failed.", "/register")
	}

	user := model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.DB.Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return h.flashRedirect(c, "danger", "Registration failed.", "/register")
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return h.flashRedirect(c, "success", "Registration successful! Please login.", "/login")
}

// LoginForm renders the login form.
func (h *Handler) LoginForm(c echo.Context) error {
	return h.render(c, "login", "Login", nil)
}

// Login verifies credentials and binds the user to the session. Unknown
// email and wrong password produce the same generic message.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `form:"email"`
		Password string `form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return h.flashRedirect(c, "danger", "Invalid request.", "/login")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := h.DB.Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		log.Warn("Login with unknown email", zap.String("email", req.Email))
		return h.flashRedirect(c, "danger", "Invalid credentials", "/login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		return h.flashRedirect(c, "danger", "Invalid credentials", "/login")
	}

	if err := h.Sessions.SetUserID(c, user.ID); err != nil {
		log.Error("Failed to establish session", zap.Error(err))
		return h.flashRedirect(c, "danger", "Login failed.", "/login")
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return h.flashRedirect(c, "success", "Logged in successfully", "/dashboard")
}

// Logout clears the session binding unconditionally.
func (h *Handler) Logout(c echo.Context) error {
	if err := h.Sessions.Clear(c); err != nil {
		logger.FromContext(c).Error("Failed to clear session", zap.Error(err))
	}
	return h.flashRedirect(c, "info", "Logged out", "/")
}

// Dashboard lists the session user's trips.
func (h *Handler) Dashboard(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var trips []model.Trip
	if err := h.DB.Where("user_id = ?", user.ID).Order("created_at desc").Find(&trips).Error; err != nil {
		log.Error("Failed to list trips", zap.Error(err))
		return err
	}

	return h.render(c, "dashboard", "Dashboard", map[string]interface{}{
		"Trips": trips,
	})
}

// Health reports service liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"service": "tripplanner",
	})
}
