// Package webui exposes the embedded page templates and stylesheet.
// It lives at the module root so it can embed the sibling "web/" directory.
// internal/server/embed.go mounts web/static and parses web/templates.
package webui

import "embed"

// FS is the embedded web directory tree.
//
//go:embed web
var FS embed.FS

// TemplatePatterns match every template under FS.
var TemplatePatterns = []string{"web/templates/*.html"}
