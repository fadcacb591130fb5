package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/mapview"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/render"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/session"
)

type selectRequest struct {
	Name string `json:"name" binding:"required"`
}

type navigateRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type clickRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

type preferencesRequest struct {
	BaseLayer *string `json:"base_layer"`
	ShowLine  *bool   `json:"show_line"`
}

// handleV1CreateSession starts a session on the first development
// POST /api/v1/sessions
func (s *Server) handleV1CreateSession(c *gin.Context) {
	id, snap := s.deps.Sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"data": snap,
		"meta": gin.H{
			"session_id": id,
		},
	})
}

// handleV1GetSession returns the current snapshot of a session
// GET /api/v1/sessions/:id
func (s *Server) handleV1GetSession(c *gin.Context) {
	snap, err := s.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1EndSession discards a session
// DELETE /api/v1/sessions/:id
func (s *Server) handleV1EndSession(c *gin.Context) {
	if !s.deps.Sessions.End(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleV1Select makes a development the active one
// POST /api/v1/sessions/:id/select
func (s *Server) handleV1Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	snap, err := s.deps.Sessions.Do(c.Param("id"), func(st *session.State) error {
		return st.Select(req.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1Navigate steps to the previous or next development
// POST /api/v1/sessions/:id/navigate
func (s *Server) handleV1Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction is required"})
		return
	}
	dir, ok := session.ParseDirection(req.Direction)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be prev or next"})
		return
	}

	snap, err := s.deps.Sessions.Do(c.Param("id"), func(st *session.State) error {
		st.Navigate(dir)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1ReturnToAnchor centers the map on the reference point
// POST /api/v1/sessions/:id/anchor
func (s *Server) handleV1ReturnToAnchor(c *gin.Context) {
	snap, err := s.deps.Sessions.Do(c.Param("id"), func(st *session.State) error {
		st.ReturnToAnchor()
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1Click resolves a map click to the nearest development
// POST /api/v1/sessions/:id/click
func (s *Server) handleV1Click(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return
	}
	if *req.Lat < -90 || *req.Lat > 90 || *req.Lon < -180 || *req.Lon > 180 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coordinates out of range"})
		return
	}

	var result session.ClickResult
	snap, err := s.deps.Sessions.Do(c.Param("id"), func(st *session.State) error {
		result = st.Click(*req.Lat, *req.Lon)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": snap,
		"meta": gin.H{
			"click": result,
		},
	})
}

// handleV1Preferences updates the base layer and the distance line toggle
// PUT /api/v1/sessions/:id/preferences
func (s *Server) handleV1Preferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences"})
		return
	}

	snap, err := s.deps.Sessions.Do(c.Param("id"), func(st *session.State) error {
		if req.BaseLayer != nil {
			if err := st.SetBaseLayer(*req.BaseLayer); err != nil {
				return err
			}
		}
		if req.ShowLine != nil {
			st.SetShowLine(*req.ShowLine)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// handleV1SessionMap returns the map surface of a session
// GET /api/v1/sessions/:id/map
func (s *Server) handleV1SessionMap(c *gin.Context) {
	snap, err := s.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	surface := mapview.Build(s.deps.Catalog, snap, s.deps.Layers)
	c.JSON(http.StatusOK, gin.H{
		"data": surface,
		"meta": gin.H{
			"selected": snap.Selected,
			"features": len(surface.Features.Features),
		},
	})
}

// handleV1SessionCard renders the HTML card of the selected development
// GET /api/v1/sessions/:id/card
func (s *Server) handleV1SessionCard(c *gin.Context) {
	snap, err := s.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if snap.Record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no development selected"})
		return
	}

	var buf bytes.Buffer
	if err := render.Card(&buf, render.NewDetail(*snap.Record, snap.Anchor, s.deps.Logos)); err != nil {
		zap.L().Error("api: card render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case eris.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case eris.Is(err, session.ErrUnknownDevelopment):
		c.JSON(http.StatusNotFound, gin.H{"error": "development not found"})
	case eris.Is(err, session.ErrUnknownLayer):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown base layer"})
	default:
		zap.L().Error("api: request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
