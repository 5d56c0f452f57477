package httpapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

type indexData struct {
	Layouts []types.Layout
}

// handleIndex renders the dashboard: one activation tile per visible
// layout plus the toast widget.
func handleIndex(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, indexData{Layouts: svc.Layouts()}); err != nil {
			if zlog != nil {
				zlog.Error().Err(err).Msg("render index")
			}
		}
	}
}
