package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
	"github.com/yigit/clubhub/internal/pkg/metrics"
)

// ResourceService handles uploaded resources and their files
type ResourceService struct {
	resourceRepo   ResourceStore
	unitRepo       UnitStore
	storage        filestorage.FileStorage
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	resourceRepo ResourceStore,
	unitRepo UnitStore,
	storage filestorage.FileStorage,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *ResourceService {
	return &ResourceService{
		resourceRepo:   resourceRepo,
		unitRepo:       unitRepo,
		storage:        storage,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// MaxUploadBytes returns the size limit applied to uploads
func (s *ResourceService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// FileURL returns the public URL of a stored file
func (s *ResourceService) FileURL(path string) string {
	return s.storage.URL(path)
}

// List returns the resources matching filter, newest first
func (s *ResourceService) List(ctx context.Context, filter models.ResourceFilter) ([]*models.Resource, error) {
	resources, err := s.resourceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error getting resources: %w", err)
	}
	return resources, nil
}

// StudyResources returns every resource except past papers
func (s *ResourceService) StudyResources(ctx context.Context) ([]*models.Resource, error) {
	papers := models.ResourceTypePapers
	return s.List(ctx, models.ResourceFilter{ExcludeType: &papers})
}

// PastPapers returns the past paper resources
func (s *ResourceService) PastPapers(ctx context.Context) ([]*models.Resource, error) {
	papers := models.ResourceTypePapers
	return s.List(ctx, models.ResourceFilter{Type: &papers})
}

// ByCategory lists one resource type, optionally narrowed to the unit named by unitParam.
// Unknown categories and unknown or malformed units are not found.
func (s *ResourceService) ByCategory(ctx context.Context, category, unitParam string) (*dto.CategoryListing, error) {
	resourceType := models.ResourceType(category)
	if !resourceType.Valid() {
		return nil, apperrors.ErrCategoryNotFound
	}

	listing := &dto.CategoryListing{Type: resourceType}
	filter := models.ResourceFilter{Type: &resourceType}

	if unitParam != "" {
		unitID, err := strconv.ParseInt(unitParam, 10, 64)
		if err != nil || unitID <= 0 {
			return nil, apperrors.ErrUnitNotFound
		}
		unit, err := s.unitRepo.GetByID(ctx, unitID)
		if err != nil {
			return nil, err
		}
		listing.Unit = unit
		filter.UnitID = &unit.ID
	}

	resources, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	listing.Resources = resources
	return listing, nil
}

// Get returns one resource
func (s *ResourceService) Get(ctx context.Context, id int64) (*models.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

func (s *ResourceService) validate(ctx context.Context, form *dto.ResourceForm, file *multipart.FileHeader, creating bool) (*int64, error) {
	if err := form.Validate(file, creating, s.maxUploadBytes); err != nil {
		if file != nil && file.Size > s.maxUploadBytes {
			metrics.RejectedUploads.Inc()
		}
		return nil, err
	}

	unitID, _ := form.UnitID()
	if unitID != nil {
		if _, err := s.unitRepo.GetByID(ctx, *unitID); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("unit", "Select a valid choice.")
			}
			return nil, err
		}
	}
	return unitID, nil
}

func (s *ResourceService) save(file *multipart.FileHeader) (string, error) {
	path, err := s.storage.Save(file, filestorage.NamespaceResources)
	if err != nil {
		return "", fmt.Errorf("error saving resource file: %w", err)
	}
	metrics.UploadedBytes.WithLabelValues(filestorage.NamespaceResources).Add(float64(file.Size))
	return path, nil
}

// Create stores the file and then the row. The file is removed again if the row cannot be written.
func (s *ResourceService) Create(ctx context.Context, actor *appAuth.Principal, form *dto.ResourceForm, file *multipart.FileHeader) (*models.Resource, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	unitID, err := s.validate(ctx, form, file, true)
	if err != nil {
		return nil, err
	}

	path, err := s.save(file)
	if err != nil {
		return nil, err
	}

	uploader := actor.UserID()
	res := &models.Resource{
		Title:        form.Title,
		UnitID:       unitID,
		ResourceType: form.Type(),
		FilePath:     path,
		UploadedBy:   &uploader,
		Description:  form.Description,
	}
	if err := s.resourceRepo.Create(ctx, res); err != nil {
		if delErr := s.storage.Delete(path); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", path).Msg("Failed to remove orphaned resource file")
		}
		return nil, err
	}

	s.logger.Info().Int64("resourceID", res.ID).Str("type", string(res.ResourceType)).Int64("by", uploader).Msg("Resource created")
	return res, nil
}

// Update changes a resource. Without a new file the stored one is kept; with
// one, the old file is released only after the row update succeeds.
func (s *ResourceService) Update(ctx context.Context, actor *appAuth.Principal, id int64, form *dto.ResourceForm, file *multipart.FileHeader) (*models.Resource, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unitID, err := s.validate(ctx, form, file, false)
	if err != nil {
		return nil, err
	}

	oldPath := res.FilePath
	newPath := ""
	if file != nil {
		if newPath, err = s.save(file); err != nil {
			return nil, err
		}
		res.FilePath = newPath
	}

	res.Title = form.Title
	res.UnitID = unitID
	res.ResourceType = form.Type()
	res.Description = form.Description

	if err := s.resourceRepo.Update(ctx, res); err != nil {
		if newPath != "" {
			if delErr := s.storage.Delete(newPath); delErr != nil {
				s.logger.Error().Err(delErr).Str("path", newPath).Msg("Failed to remove orphaned resource file")
			}
		}
		return nil, err
	}

	if newPath != "" && oldPath != "" && oldPath != newPath {
		if err := s.storage.Delete(oldPath); err != nil {
			s.logger.Warn().Err(err).Str("path", oldPath).Msg("Failed to release replaced resource file")
		}
	}

	s.logger.Info().Int64("resourceID", res.ID).Int64("by", actor.UserID()).Msg("Resource updated")
	return res, nil
}

// Delete removes a resource and its file as one unit of work
func (s *ResourceService) Delete(ctx context.Context, actor *appAuth.Principal, id int64) error {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return err
	}
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := deleteWithBlob(ctx, s.storage, s.logger, res.FilePath, func(ctx context.Context) error {
		return s.resourceRepo.Delete(ctx, id)
	}); err != nil {
		return err
	}

	s.logger.Info().Int64("resourceID", id).Int64("by", actor.UserID()).Msg("Resource deleted")
	return nil
}

// deleteWithBlob stages the blob, runs the row delete, then commits or restores the blob
func deleteWithBlob(ctx context.Context, storage filestorage.FileStorage, logger zerolog.Logger, path string, deleteRow func(context.Context) error) error {
	staged, err := storage.StageDelete(path)
	if err != nil {
		return fmt.Errorf("error staging file deletion: %w", err)
	}

	if err := deleteRow(ctx); err != nil {
		if rbErr := staged.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (file restore failed: %v)", err, rbErr)
		}
		return err
	}

	if err := staged.Commit(); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to purge staged file")
	}
	return nil
}
