// Package views renders the embedded HTML templates
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/logger"
	"github.com/yigit/clubhub/internal/pkg/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile    = "templates/layout.html"
	displayLayout = "Jan 2, 2006 15:04"
)

// Renderer executes page templates inside the shared layout
type Renderer struct {
	pages    map[string]*template.Template
	location *time.Location
	now      func() time.Time
}

// New parses every page template. fileURL maps stored paths to public URLs.
func New(fileURL func(string) string, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{
		pages:    make(map[string]*template.Template),
		location: loc,
		now:      time.Now,
	}

	funcs := template.FuncMap{
		"yearLabel": models.YearLabel,
		"markdown":  markdown.Render,
		"fileURL":   fileURL,
		"localTime": func(t time.Time) string { return t.In(loc).Format(displayLayout) },
		"localTimePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(loc).Format(displayLayout)
		},
		"resourceTypes": func() []models.ResourceType { return models.ResourceTypes },
		"isImage": func(path string) bool {
			p := strings.ToLower(path)
			for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
				if strings.HasSuffix(p, ext) {
					return true
				}
			}
			return false
		},
		"dict": func(kv ...interface{}) map[string]interface{} {
			m := make(map[string]interface{}, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				m[fmt.Sprint(kv[i])] = kv[i+1]
			}
			return m
		},
		"selected": func(a, b interface{}) template.HTMLAttr {
			if fmt.Sprint(a) == fmt.Sprint(b) {
				return "selected"
			}
			return ""
		},
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if page == layoutFile {
			continue
		}
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[strings.TrimPrefix(page, "templates/")] = tpl
	}

	return r, nil
}

// HTML renders page with data. The current principal, the CSRF field and an
// empty error map are added to data when absent.
func (r *Renderer) HTML(c *gin.Context, status int, page string, data gin.H) {
	tpl, ok := r.pages[page]
	if !ok {
		logger.Error().Str("page", page).Msg("Unknown template")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	if data == nil {
		data = gin.H{}
	}
	principal := appAuth.PrincipalFrom(c)
	data["Principal"] = principal
	data["CSRFField"] = csrf.TemplateField(c.Request)
	data["Now"] = r.now()
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		logger.Error().Err(err).Str("page", page).Msg("Failed to render template")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Error renders the error page with status and message
func (r *Renderer) Error(c *gin.Context, status int, message string) {
	r.HTML(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}
