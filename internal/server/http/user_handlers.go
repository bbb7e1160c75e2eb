package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/errs"
	"weekplanner/internal/model"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// eventsByUser is the read-only "view another user's calendar" path.
func (s *Server) eventsByUser(c *gin.Context) {
	userID, err := uuid.FromString(c.Param("userId"))
	if err != nil {
		s.writeErr(c, fmt.Errorf("%w: bad user id", errs.ErrValidation))
		return
	}
	events, err := s.users.EventsByUser(c.Request.Context(), userID)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	c.JSON(http.StatusOK, events)
}
