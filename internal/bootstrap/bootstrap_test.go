package bootstrap

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"
	"github.com/yigit/clubhub/internal/config"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

const csrfField = "gorilla.csrf.Token"

type recordingHandler struct {
	token   string
	reached bool
	read    int
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.token = csrf.Token(r)
	if r.Method == http.MethodPost {
		h.reached = true
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if fh := r.MultipartForm.File["file"]; len(fh) == 1 {
			h.read = int(fh[0].Size)
		}
	}
	w.WriteHeader(http.StatusOK)
}

func testHandler(t *testing.T) (http.Handler, *recordingHandler) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.MaxUploadMB = 1
	cfg.Server.CSRFKey = strings.Repeat("ab", 32)
	cfg.Server.TrustedOrigins = []string{"example.com"}

	inner := &recordingHandler{}
	h, err := BuildHandler(cfg, inner, zerolog.Nop())
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	return h, inner
}

// csrfSession fetches a page and returns the form token with its cookie
func csrfSession(t *testing.T, h http.Handler, inner *recordingHandler) (string, []*http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/resource/add/", nil))
	if rec.Code != http.StatusOK || inner.token == "" {
		t.Fatalf("GET status = %d, token = %q", rec.Code, inner.token)
	}
	return inner.token, rec.Result().Cookies()
}

func uploadRequest(t *testing.T, token string, cookies []*http.Cookie, content []byte) *http.Request {
	t.Helper()
	body, contentType := memstore.MultipartBody(t,
		map[string]string{csrfField: token, "title": "Notes"},
		map[string]memstore.File{"file": {Name: "notes.pdf", Content: content}})
	req := httptest.NewRequest(http.MethodPost, "http://example.com/resource/add/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Origin", "http://example.com")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestBuildHandler_AcceptsUploadWithinLimit(t *testing.T) {
	h, inner := testHandler(t)
	token, cookies := csrfSession(t, h, inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, token, cookies, bytes.Repeat([]byte("a"), 64*1024)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	if !inner.reached || inner.read != 64*1024 {
		t.Errorf("reached = %v, file size = %d", inner.reached, inner.read)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestBuildHandler_RejectsOversizeBodyBeforeCSRF(t *testing.T) {
	h, inner := testHandler(t)
	token, cookies := csrfSession(t, h, inner)

	// 1MB uploads allow a 3MB multipart body
	req := uploadRequest(t, token, cookies, make([]byte, 3<<20+1))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if inner.reached {
		t.Error("oversized request reached the router")
	}
}

func TestBuildHandler_CapsBodyWithoutLength(t *testing.T) {
	h, inner := testHandler(t)
	token, cookies := csrfSession(t, h, inner)

	req := uploadRequest(t, token, cookies, make([]byte, 4<<20))
	counted := &countingReader{r: req.Body}
	req.Body = io.NopCloser(counted)
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code == http.StatusOK || inner.reached {
		t.Errorf("status = %d, reached = %v", rec.Code, inner.reached)
	}
	if counted.n > 3<<20+64*1024 {
		t.Errorf("read %d bytes past the cap", counted.n)
	}
}

func TestBuildHandler_LimitsPlainForms(t *testing.T) {
	h, inner := testHandler(t)

	req := httptest.NewRequest(http.MethodPost, "http://example.com/login/", strings.NewReader(strings.Repeat("a", formBodyLimit+1)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge || inner.reached {
		t.Errorf("status = %d, reached = %v", rec.Code, inner.reached)
	}
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
