package markdown

import (
	"bytes"
	"html/template"

	"github.com/yigit/clubhub/internal/pkg/logger"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in the source is escaped since WithUnsafe is not set
var renderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Render converts markdown text to HTML safe to embed in a page
func Render(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(src), &buf); err != nil {
		logger.Warn().Err(err).Msg("Failed to render markdown, falling back to escaped text")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
