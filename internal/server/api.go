package server

import (
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vesaa/showcase/internal/widgets"
)

// RegisterRoutes wires up the page, download, chart and state endpoints.
// Everything except /healthz runs behind SessionMiddleware.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)

	page := r.Group("/", SessionMiddleware(s.sessions))
	{
		page.GET("/", s.handlePage)
		page.POST("/", s.handleSubmit)
		page.GET("/download/:file", s.handleDownload)
		page.GET("/chart/:file", s.handleChart)
		page.GET("/api/state", s.handleState)
	}
}

// ── Handlers ──────────────────────────────────────────────────────────────────

// runForSession loads the caller's values and re-runs the script.
// It writes the error response itself and returns nil on failure.
func (s *Server) runForSession(c *gin.Context) *widgets.Page {
	values, err := s.loadValues(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil
	}
	return s.Run(values)
}

// handlePage renders the whole page.
func (s *Server) handlePage(c *gin.Context) {
	p := s.runForSession(c)
	if p == nil {
		return
	}
	// keep the session alive for PruneLoop even if it never submits
	if err := s.store.Touch(c.Request.Context(), sessionID(c)); err != nil {
		log.Printf("[store] %v", err)
	}
	c.HTML(http.StatusOK, widgets.PageTemplate, p.View())
}

// handleSubmit takes the posted widget values, runs the script to resolve
// them, stores the result and redirects back to the page.
//
//	POST /
//	Body: name=Ann&age=30&slider=50&show_more_info=on
func (s *Server) handleSubmit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
		return
	}
	p := s.Run(widgets.ValuesFromForm(c.Request.PostForm))

	if err := s.store.Save(c.Request.Context(), sessionID(c), p.State()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handleDownload serves a payload registered by a download button.
func (s *Server) handleDownload(c *gin.Context) {
	p := s.runForSession(c)
	if p == nil {
		return
	}
	d, ok := p.Download(c.Param("file"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such download"})
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.FileName}))
	c.Data(http.StatusOK, d.Mime, d.Data)
}

// handleChart serves one chart of the current run as a standalone SVG.
func (s *Server) handleChart(c *gin.Context) {
	idx, err := strconv.Atoi(strings.TrimSuffix(c.Param("file"), ".svg"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chart index"})
		return
	}
	p := s.runForSession(c)
	if p == nil {
		return
	}
	svg, ok := p.Chart(idx)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such chart"})
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", svg)
}

// handleState returns the session's resolved widget values.
func (s *Server) handleState(c *gin.Context) {
	p := s.runForSession(c)
	if p == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sessionID(c), "data": p.State()})
}

// handleHealth reports liveness plus a host snapshot.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
		"host":   collectHost(s.started),
	})
}

