package httpserver

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekplanner/internal/model"
)

const (
	cookieName = "token"
	sessionKey = "session"
)

// Logging logs one line per request: metadata only, no payloads.
func Logging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("peer", c.ClientIP()),
		)
	}
}

// Recover recovers from handler panics and answers 500.
func Recover(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			}
		}()
		c.Next()
	}
}

// sessionGate requires a valid session cookie. A missing or invalid
// token reads uniformly as "not authenticated": browsers are redirected
// to the login page, API callers get 401. The actual failure cause is
// only logged.
func (s *Server) sessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(cookieName)
		if err != nil || tok == "" {
			s.log.Debug("session missing", zap.String("path", c.Request.URL.Path))
			s.denied(c)
			return
		}
		sess, err := s.auth.VerifyToken(tok)
		if err != nil {
			s.log.Debug("session rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			s.denied(c)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func (s *Server) denied(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/login")
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	}
	c.Abort()
}

// sessionFrom returns the verified session stored by the gate.
func sessionFrom(c *gin.Context) *model.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}
