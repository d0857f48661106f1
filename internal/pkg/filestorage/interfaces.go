package filestorage

import (
	"mime/multipart"
)

// Storage namespaces, relative to the storage root
const (
	NamespaceResources    = "resources"
	NamespaceEventPosters = "events/posters"
)

// FileStorage defines the blob operations the services rely on
type FileStorage interface {
	// Save stores the upload under namespace and returns its relative path
	Save(fileHeader *multipart.FileHeader, namespace string) (string, error)

	// Delete removes a stored blob. Missing blobs are not an error.
	Delete(relPath string) error

	// StageDelete moves a blob aside so that it can be restored if the
	// surrounding database change fails
	StageDelete(relPath string) (StagedDeletion, error)

	// URL returns the public URL for a relative path
	URL(relPath string) string
}

// StagedDeletion is the pending removal of one blob
type StagedDeletion interface {
	// Commit removes the staged blob for good
	Commit() error
	// Rollback puts the blob back where it was
	Rollback() error
}
