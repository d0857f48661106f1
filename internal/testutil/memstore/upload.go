package memstore

import (
	"bytes"
	"mime"
	"mime/multipart"
	"testing"
)

// PNG is the smallest content that sniffs as image/png
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// FileHeader builds an uploaded file the way a multipart request would
func FileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body, contentType := MultipartBody(t, nil, map[string]File{field: {Name: filename, Content: content}})
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(int64(len(content)) + 1<<20)
	if err != nil {
		t.Fatalf("read multipart form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

// File is one file part of a multipart body
type File struct {
	Name    string
	Content []byte
}

// MultipartBody encodes fields and files as multipart/form-data and returns
// the body with its content type
func MultipartBody(t *testing.T, fields map[string]string, files map[string]File) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			t.Fatalf("create file %s: %v", field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("write file %s: %v", field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}
