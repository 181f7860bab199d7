// Package server serves the showcase page over Gin.
// Every request re-runs the page script against the caller's session values:
//
//	GET  /                 render the page
//	POST /                 apply submitted widget values, then redirect to GET /
//	GET  /download/:file   serve a download registered by the script
//	GET  /chart/:file      serve the n-th chart of the run as SVG ("0.svg")
//	GET  /api/state        current session values as JSON
//	GET  /healthz          liveness + host stats (no session)
package server

import (
	"context"
	"errors"
	"html/template"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vesaa/showcase/internal/app"
	"github.com/vesaa/showcase/internal/chart"
	"github.com/vesaa/showcase/internal/config"
	"github.com/vesaa/showcase/internal/store"
	"github.com/vesaa/showcase/internal/widgets"
)

// Server holds everything a request needs to re-run the page.
type Server struct {
	store    *store.Store
	sessions *Sessions
	tmpl     *template.Template
	pageCfg  widgets.PageConfig
	content  app.Content
	ttl      time.Duration
	devMode  bool
	started  time.Time
}

// New wires a server from config. The store is owned by the caller.
func New(cfg *config.Config, st *store.Store) (*Server, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	content := app.DefaultContent()
	if cfg.ImageURL != "" {
		content.ImageURL = cfg.ImageURL
	}

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Server{
		store:    st,
		sessions: NewSessions(cfg.SessionSecret, ttl),
		tmpl:     tmpl,
		pageCfg: widgets.PageConfig{
			Title:  cfg.PageTitle,
			Layout: cfg.PageLayout,
			Chart:  chart.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		},
		content: content,
		ttl:     ttl,
		devMode: cfg.DevelopmentMode,
		started: time.Now(),
	}, nil
}

// Engine builds the Gin engine with all routes registered.
// Call gin.SetMode before this.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.devMode {
		r.Use(gin.Logger())
	}
	r.SetHTMLTemplate(s.tmpl)

	s.RegisterRoutes(r)
	RegisterStaticFiles(r)
	return r
}

// Run executes the page script once against values.
func (s *Server) Run(values widgets.Values) *widgets.Page {
	p := widgets.NewPage(s.pageCfg, values)
	app.Run(p, s.content)
	if err := p.Err(); err != nil {
		log.Printf("[page] script errors: %v", err)
	}
	return p
}

// Template returns the parsed page template.
func (s *Server) Template() *template.Template { return s.tmpl }

// loadValues returns the session's values; unknown sessions start empty.
func (s *Server) loadValues(ctx context.Context, id string) (widgets.Values, error) {
	values, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNoSession) {
		return widgets.Values{}, nil
	}
	return values, err
}

// PruneLoop deletes expired sessions every interval until ctx is done.
func (s *Server) PruneLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.Prune(ctx, s.ttl)
			if err != nil {
				log.Printf("[store] prune error: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[store] pruned %d expired sessions", n)
			}
		}
	}
}
