package routes_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/routes"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

func TestUploads_OnlyPostersRenderInline(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string][]byte{
		"resources/page.html":     []byte("<script>alert(1)</script>"),
		"resources/notes.pdf":     []byte("%PDF-1.4"),
		"events/posters/talk.png": memstore.PNG,
	} {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	router := gin.New()
	routes.SetupSystemRoutes(router, http.Dir(dir), func(c *gin.Context) { c.Status(http.StatusOK) }, http.NotFoundHandler())

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	for _, tc := range []struct {
		path, filename string
	}{
		{"/uploads/resources/page.html", "page.html"},
		{"/uploads/resources/notes.pdf", "notes.pdf"},
		{"/uploads/events/posters/../../resources/page.html", "page.html"},
	} {
		rec := get(tc.path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", tc.path, rec.Code)
			continue
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment") || !strings.Contains(got, tc.filename) {
			t.Errorf("%s: Content-Disposition = %q", tc.path, got)
		}
	}

	poster := get("/uploads/events/posters/talk.png")
	assertStatus(t, poster, http.StatusOK)
	if got := poster.Header().Get("Content-Disposition"); got != "" {
		t.Errorf("poster Content-Disposition = %q, want inline", got)
	}
	if got := poster.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("poster Content-Type = %q", got)
	}
}
