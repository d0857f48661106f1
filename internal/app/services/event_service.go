package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/calendar"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
	"github.com/yigit/clubhub/internal/pkg/metrics"
)

// EventService handles club events and their posters
type EventService struct {
	eventRepo      EventStore
	storage        filestorage.FileStorage
	feed           calendar.Feed
	maxUploadBytes int64
	location       *time.Location
	logger         zerolog.Logger
	now            func() time.Time
}

// NewEventService creates a new EventService. Form times are read in loc.
func NewEventService(
	eventRepo EventStore,
	storage filestorage.FileStorage,
	feed calendar.Feed,
	maxUploadBytes int64,
	loc *time.Location,
	logger zerolog.Logger,
) *EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{
		eventRepo:      eventRepo,
		storage:        storage,
		feed:           feed,
		maxUploadBytes: maxUploadBytes,
		location:       loc,
		logger:         logger,
		now:            time.Now,
	}
}

// Location returns the zone event times are entered and shown in
func (s *EventService) Location() *time.Location {
	return s.location
}

// Now returns the current time as seen by the service
func (s *EventService) Now() time.Time {
	return s.now()
}

// Partition splits events into upcoming and past around the current time
func (s *EventService) Partition(ctx context.Context) (*models.EventPartition, error) {
	now := s.now()

	upcoming, err := s.eventRepo.ListUpcoming(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("error getting upcoming events: %w", err)
	}
	past, err := s.eventRepo.ListPast(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("error getting past events: %w", err)
	}

	return &models.EventPartition{Upcoming: upcoming, Past: past}, nil
}

// List returns every event, latest start first
func (s *EventService) List(ctx context.Context) ([]*models.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting events: %w", err)
	}
	return events, nil
}

// Get returns one event
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// Calendar renders every event as an iCalendar feed
func (s *EventService) Calendar(ctx context.Context) (string, error) {
	events, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	return s.feed.Build(events, s.now()), nil
}

func (s *EventService) validate(form *dto.EventForm, poster *multipart.FileHeader) (*dto.EventTimes, error) {
	times, err := form.Validate(poster, s.maxUploadBytes, s.location)
	if err != nil && poster != nil && poster.Size > s.maxUploadBytes {
		metrics.RejectedUploads.Inc()
	}
	return times, err
}

func (s *EventService) savePoster(poster *multipart.FileHeader) (string, error) {
	path, err := s.storage.Save(poster, filestorage.NamespaceEventPosters)
	if err != nil {
		return "", fmt.Errorf("error saving event poster: %w", err)
	}
	metrics.UploadedBytes.WithLabelValues(filestorage.NamespaceEventPosters).Add(float64(poster.Size))
	return path, nil
}

func (s *EventService) discard(path string) {
	if path == "" {
		return
	}
	if err := s.storage.Delete(path); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("Failed to remove orphaned poster")
	}
}

// Create adds an event. The poster is optional.
func (s *EventService) Create(ctx context.Context, actor *appAuth.Principal, form *dto.EventForm, poster *multipart.FileHeader) (*models.Event, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	times, err := s.validate(form, poster)
	if err != nil {
		return nil, err
	}

	posterPath := ""
	if poster != nil {
		if posterPath, err = s.savePoster(poster); err != nil {
			return nil, err
		}
	}

	creator := actor.UserID()
	event := &models.Event{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		Start:       times.Start,
		End:         times.End,
		PosterPath:  posterPath,
		CreatedBy:   &creator,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.discard(posterPath)
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Str("title", event.Title).Int64("by", creator).Msg("Event created")
	return event, nil
}

// Update changes an event. A new poster replaces the old one and clear_poster
// removes it; the old file is released only once the row is updated.
func (s *EventService) Update(ctx context.Context, actor *appAuth.Principal, id int64, form *dto.EventForm, poster *multipart.FileHeader) (*models.Event, error) {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	times, err := s.validate(form, poster)
	if err != nil {
		return nil, err
	}

	oldPoster := event.PosterPath
	newPoster := ""
	switch {
	case poster != nil:
		if newPoster, err = s.savePoster(poster); err != nil {
			return nil, err
		}
		event.PosterPath = newPoster
	case form.ClearPoster:
		event.PosterPath = ""
	}

	event.Title = form.Title
	event.Description = form.Description
	event.Location = form.Location
	event.Start = times.Start
	event.End = times.End

	if err := s.eventRepo.Update(ctx, event); err != nil {
		s.discard(newPoster)
		return nil, err
	}

	if oldPoster != "" && oldPoster != event.PosterPath {
		if err := s.storage.Delete(oldPoster); err != nil {
			s.logger.Warn().Err(err).Str("path", oldPoster).Msg("Failed to release replaced poster")
		}
	}

	s.logger.Info().Int64("eventID", event.ID).Int64("by", actor.UserID()).Msg("Event updated")
	return event, nil
}

// Delete removes an event together with its poster
func (s *EventService) Delete(ctx context.Context, actor *appAuth.Principal, id int64) error {
	if err := appAuth.RequireAdmin(actor); err != nil {
		return err
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := deleteWithBlob(ctx, s.storage, s.logger, event.PosterPath, func(ctx context.Context) error {
		return s.eventRepo.Delete(ctx, id)
	}); err != nil {
		return err
	}

	s.logger.Info().Int64("eventID", id).Int64("by", actor.UserID()).Msg("Event deleted")
	return nil
}
