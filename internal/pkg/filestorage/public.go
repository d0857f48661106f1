package filestorage

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// PublicFS serves stored blobs without directory listings or the trash area
func (ls *LocalStorage) PublicFS() http.FileSystem {
	return publicFS{root: http.Dir(ls.basePath)}
}

type publicFS struct {
	root http.FileSystem
}

func (fs publicFS) Open(name string) (http.File, error) {
	cleaned := path.Clean("/" + name)
	for _, part := range strings.Split(cleaned, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, os.ErrNotExist
		}
	}

	f, err := fs.root.Open(cleaned)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
