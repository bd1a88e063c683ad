package server

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"joined": formatJoined,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// formatJoined turns the backend's ISO timestamp into a short date
func formatJoined(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return *s
	}
	return t.Format("January 2006")
}
