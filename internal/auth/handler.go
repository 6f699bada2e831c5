package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgRegistered   = "Registered successfully! You can now log in."
	msgEmailExists  = "Email is already registered. Try logging in or use a different email."
	msgInvalidLogin = "Invalid login details"
	msgWelcome      = "Welcome back!"
	msgLoggedOut    = "You have been logged out."
)

type Handler struct {
	service      *Service
	responder    *web.Responder
	logger       *slog.Logger
	validator    *validator.Validate
	ttl          time.Duration
	secureCookie bool
}

func NewHandler(service *Service, responder *web.Responder, logger *slog.Logger, ttl time.Duration, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		responder:    responder,
		logger:       logger,
		validator:    validator.New(),
		ttl:          ttl,
		secureCookie: secureCookie,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Home)
	router.GET("/register", h.RegisterPage)
	router.POST("/register", h.Register)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)

	authed := router.Group("", RequireLogin())
	authed.POST("/logout", h.Logout)
	authed.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	web.HTML(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.responder.Invalid(c, err, "/register")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.responder.Invalid(c, err, "/register")
		return
	}

	if _, err := h.service.Register(c.Request.Context(), req); err != nil {
		if errors.Is(err, ErrEmailExists) {
			web.Redirect(c, "/register", msgEmailExists)
			return
		}
		h.responder.Fail(c, err, "/register")
		return
	}

	web.Redirect(c, "/login", msgRegistered)
}

func (h *Handler) LoginPage(c *gin.Context) {
	if actor := Actor(c); actor != nil {
		// A role without a dashboard would bounce between / and /login.
		if route := access.DashboardFor(actor.Role); route != access.HomeRoute {
			c.Redirect(http.StatusSeeOther, route)
			return
		}
	}
	web.HTML(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		web.Redirect(c, "/login", msgInvalidLogin)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		web.Redirect(c, "/login", msgInvalidLogin)
		return
	}

	session, u, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.InfoContext(c.Request.Context(), "login rejected", "email", req.Email)
			web.Redirect(c, "/login", msgInvalidLogin)
			return
		}
		h.responder.Fail(c, err, "/login")
		return
	}

	token, err := h.service.Token(session)
	if err != nil {
		h.responder.Fail(c, err, "/login")
		return
	}

	SetSessionCookie(c, token, int(h.ttl.Seconds()), h.secureCookie)
	web.Redirect(c, access.DashboardFor(u.Role), msgWelcome)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), SessionID(c)); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to delete session", "error", err)
	}
	ClearSessionCookie(c, h.secureCookie)
	web.Redirect(c, "/login", msgLoggedOut)
}

// Dashboard routes the actor to the landing page of its role.
func (h *Handler) Dashboard(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, access.DashboardFor(Actor(c).Role))
}
