package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"weekplanner/internal/errs"
	"weekplanner/internal/model"
	"weekplanner/internal/service"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeErr(c, fmt.Errorf("%w: bad json body", errs.ErrValidation))
		return
	}
	u, err := s.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if err := s.startSession(c, u); err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeErr(c, fmt.Errorf("%w: bad json body", errs.ErrValidation))
		return
	}
	u, err := s.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if err := s.startSession(c, u); err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) me(c *gin.Context) {
	sess := sessionFrom(c)
	u, err := s.auth.Me(c.Request.Context(), sess.UserID)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// startSession issues a token and sets the session cookie:
// HttpOnly, SameSite=Lax, path /, max-age = token lifetime.
func (s *Server) startSession(c *gin.Context, u *model.User) error {
	tok, _, err := s.auth.IssueToken(u)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, tok, int(service.SessionTTL/time.Second), "/", "", s.secureCookie, true)
	return nil
}
