// Package httpserver exposes the weekly planner HTTP API and the
// minimal HTML pages the session gate redirects to.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekplanner/internal/errs"
	"weekplanner/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth   service.AuthService
	events service.EventService
	users  service.UserService
	log    *zap.Logger

	// secureCookie marks the session cookie Secure; set in prod.
	secureCookie bool
}

// New constructs a Server with injected services.
func New(auth service.AuthService, events service.EventService, users service.UserService, log *zap.Logger, secureCookie bool) *Server {
	return &Server{auth: auth, events: events, users: users, log: log, secureCookie: secureCookie}
}

// Router builds the gin engine with middleware and all routes. Every
// route outside the public allow-list sits behind the session gate.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recover(s.log), Logging(s.log))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.GET("/login", s.loginPage)
	r.GET("/signup", s.signupPage)
	r.POST("/auth/signup", s.signup)
	r.POST("/auth/login", s.login)

	authed := r.Group("/", s.sessionGate())
	authed.GET("/auth/me", s.me)

	authed.GET("/events", s.listEvents)
	authed.POST("/events", s.createEvent)
	authed.GET("/events/export.ics", s.exportICS)
	authed.GET("/events/:id", s.getEvent)
	authed.PATCH("/events/:id", s.patchEvent)
	authed.DELETE("/events/:id", s.deleteEvent)

	authed.GET("/users", s.listUsers)
	authed.GET("/events-by-user/:userId", s.eventsByUser)

	return r
}

// writeErr maps service errors onto the HTTP taxonomy. Anything outside
// the known sentinels answers 500 with no detail.
func (s *Server) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "time range already occupied"})
	case errors.Is(err, errs.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
	default:
		s.log.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
