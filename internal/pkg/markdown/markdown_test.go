package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got := string(Render("**Bring** a laptop\nand snacks"))
	if !strings.Contains(got, "<strong>Bring</strong>") {
		t.Errorf("emphasis not rendered: %s", got)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("hard wrap not rendered: %s", got)
	}
}

func TestRender_EscapesRawHTML(t *testing.T) {
	got := string(Render("hello <script>alert(1)</script>"))
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html passed through: %s", got)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(""); got != "" {
		t.Errorf("empty source rendered as %q", got)
	}
}
