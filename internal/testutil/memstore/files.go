package memstore

import (
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
)

// Files is a filestorage.FileStorage kept in memory
type Files struct {
	mu    sync.Mutex
	blobs map[string][]byte
	// SaveErr, when set, is returned by every Save
	SaveErr error
}

var _ filestorage.FileStorage = (*Files)(nil)

// NewFiles creates an empty in-memory file storage
func NewFiles() *Files {
	return &Files{blobs: make(map[string][]byte)}
}

func (f *Files) Save(fileHeader *multipart.FileHeader, namespace string) (string, error) {
	if f.SaveErr != nil {
		return "", f.SaveErr
	}
	if fileHeader == nil {
		return "", fmt.Errorf("no file to save")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	rel := path.Join(namespace, uuid.New().String()+strings.ToLower(path.Ext(fileHeader.Filename)))
	f.mu.Lock()
	f.blobs[rel] = data
	f.mu.Unlock()
	return rel, nil
}

func (f *Files) Delete(relPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, relPath)
	return nil
}

func (f *Files) StageDelete(relPath string) (filestorage.StagedDeletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[relPath]
	if !ok {
		return stage{}, nil
	}
	delete(f.blobs, relPath)
	return stage{restore: func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.blobs[relPath] = data
		return nil
	}}, nil
}

func (f *Files) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return "/uploads/" + relPath
}

// Has reports whether a blob is stored at relPath
func (f *Files) Has(relPath string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[relPath]
	return ok
}

// Paths lists every stored blob
func (f *Files) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.blobs))
	for p := range f.blobs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

type stage struct {
	restore func() error
}

func (s stage) Commit() error { return nil }

func (s stage) Rollback() error {
	if s.restore == nil {
		return nil
	}
	return s.restore()
}
