package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

const trashDir = ".trash"

// ErrInvalidPath is returned for paths that escape the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory of stored blobs
	baseURL  string // URL prefix the root is served under, e.g. /uploads
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, trashDir), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the storage root on disk
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save copies the uploaded file to <namespace>/<uuid><ext> and returns that relative path
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, namespace string) (string, error) {
	if fileHeader == nil {
		return "", errors.New("no file to save")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir, err := ls.resolve(namespace)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create namespace directory")
		return "", fmt.Errorf("failed to create namespace directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	relPath := path.Join(namespace, uuid.New().String()+ext)
	dstPath := filepath.Join(ls.basePath, filepath.FromSlash(relPath))

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to finish file write: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", relPath).Int64("size", fileHeader.Size).Msg("File saved successfully")
	return relPath, nil
}

// Delete removes a blob. Returns nil if the blob is already gone.
func (ls *LocalStorage) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}

	fullPath, err := ls.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", relPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", relPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", relPath).Msg("File deleted successfully")
	return nil
}

// StageDelete moves the blob into the trash directory. A missing blob yields
// a staged deletion whose Commit and Rollback do nothing.
func (ls *LocalStorage) StageDelete(relPath string) (StagedDeletion, error) {
	if relPath == "" {
		return noopStage{}, nil
	}

	fullPath, err := ls.resolve(relPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		logger.Warn().Str("path", relPath).Msg("File to stage for deletion does not exist")
		return noopStage{}, nil
	}

	trashPath := filepath.Join(ls.basePath, trashDir, uuid.New().String())
	if err := os.Rename(fullPath, trashPath); err != nil {
		return nil, fmt.Errorf("failed to stage file for deletion: %w", err)
	}

	return &localStage{original: fullPath, staged: trashPath, relPath: relPath}, nil
}

// URL returns the public URL of a stored blob
func (ls *LocalStorage) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return ls.baseURL + "/" + strings.TrimLeft(relPath, "/")
}

// resolve maps a relative path onto the storage root, rejecting traversal
func (ls *LocalStorage) resolve(relPath string) (string, error) {
	cleaned := path.Clean("/" + filepath.ToSlash(relPath))
	if cleaned == "/" || strings.HasPrefix(cleaned, "/"+trashDir) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relPath)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

type localStage struct {
	original string
	staged   string
	relPath  string
}

func (s *localStage) Commit() error {
	if err := os.Remove(s.staged); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", s.relPath).Msg("Failed to remove staged file")
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	logger.Info().Str("path", s.relPath).Msg("File deleted successfully")
	return nil
}

func (s *localStage) Rollback() error {
	if err := os.Rename(s.staged, s.original); err != nil {
		logger.Error().Err(err).Str("path", s.relPath).Msg("Failed to restore staged file")
		return fmt.Errorf("failed to restore staged file: %w", err)
	}
	logger.Warn().Str("path", s.relPath).Msg("Staged file deletion rolled back")
	return nil
}

type noopStage struct{}

func (noopStage) Commit() error   { return nil }
func (noopStage) Rollback() error { return nil }
