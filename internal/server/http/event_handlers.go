package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"weekplanner/internal/errs"
	"weekplanner/internal/ics"
	"weekplanner/internal/model"
)

func (s *Server) listEvents(c *gin.Context) {
	sess := sessionFrom(c)
	f, err := filtersFromQuery(c)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	events, err := s.events.List(c.Request.Context(), sess.UserID, f)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) createEvent(c *gin.Context) {
	sess := sessionFrom(c)
	var in model.CreateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.writeErr(c, fmt.Errorf("%w: bad json body", errs.ErrValidation))
		return
	}
	ev, err := s.events.Create(c.Request.Context(), sess.UserID, in)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (s *Server) getEvent(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := eventID(c)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	ev, err := s.events.Get(c.Request.Context(), sess.UserID, id)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) patchEvent(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := eventID(c)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	var upd model.UpdateEventInput
	if err := c.ShouldBindJSON(&upd); err != nil {
		s.writeErr(c, fmt.Errorf("%w: bad json body", errs.ErrValidation))
		return
	}
	ev, err := s.events.Update(c.Request.Context(), sess.UserID, id, upd)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (s *Server) deleteEvent(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := eventID(c)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	if err := s.events.Delete(c.Request.Context(), sess.UserID, id); err != nil {
		s.writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) exportICS(c *gin.Context) {
	sess := sessionFrom(c)
	f, err := filtersFromQuery(c)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	events, err := s.events.List(c.Request.Context(), sess.UserID, f)
	if err != nil {
		s.writeErr(c, err)
		return
	}
	out := ics.Export(sess.Name, events)
	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(out))
}

func eventID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad event id", errs.ErrValidation)
	}
	return id, nil
}

// filtersFromQuery reads startDate/endDate (RFC 3339) and tag.
func filtersFromQuery(c *gin.Context) (model.EventFilters, error) {
	var f model.EventFilters
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%w: bad startDate", errs.ErrValidation)
		}
		f.StartDate = t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, fmt.Errorf("%w: bad endDate", errs.ErrValidation)
		}
		f.EndDate = t
	}
	if v := c.Query("tag"); v != "" {
		tag := model.Tag(v)
		if !tag.Valid() {
			return f, fmt.Errorf("%w: unknown tag %q", errs.ErrValidation, v)
		}
		f.Tag = tag
	}
	return f, nil
}
