package server

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vesaa/showcase/internal/widgets"
	"github.com/vesaa/showcase/webui"
)

// LoadTemplates parses the embedded page and widget templates.
func LoadTemplates() (*template.Template, error) {
	return widgets.ParseTemplates(webui.FS, webui.TemplatePatterns...)
}

// RegisterStaticFiles mounts the embedded stylesheet under /static.
func RegisterStaticFiles(r *gin.Engine) {
	staticFS, err := fs.Sub(webui.FS, "web/static")
	if err != nil {
		panic("embed: web/static sub-fs failed: " + err.Error())
	}
	r.StaticFS("/static", http.FS(staticFS))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
