package dto

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/helpers"
	"github.com/yigit/clubhub/internal/pkg/validation"
)

// EventForm represents the event create and edit form. Times use the
// datetime-local input format.
type EventForm struct {
	Title       string `form:"title" binding:"required,max=150"`
	Description string `form:"description"`
	Location    string `form:"location" binding:"max=100"`
	Start       string `form:"start" binding:"required"`
	End         string `form:"end"`
	ClearPoster bool   `form:"clear_poster"`
}

// EventTimes is the parsed schedule of a valid form
type EventTimes struct {
	Start time.Time
	End   *time.Time
}

// Validate checks the fields, the schedule and the poster, returning the parsed times
func (f *EventForm) Validate(poster *multipart.FileHeader, maxBytes int64, loc *time.Location) (*EventTimes, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	fields := validation.Struct(f)
	if fields == nil {
		fields = map[string]string{}
	}

	times := &EventTimes{}
	if _, bad := fields["start"]; !bad {
		start, err := helpers.ParseDateTimeLocal(f.Start, loc)
		if err != nil {
			fields["start"] = "Enter a valid date/time."
		} else {
			times.Start = start
		}
	}

	if strings.TrimSpace(f.End) != "" {
		end, err := helpers.ParseDateTimeLocal(f.End, loc)
		switch {
		case err != nil:
			fields["end"] = "Enter a valid date/time."
		case !times.Start.IsZero() && !end.After(times.Start):
			fields["end"] = "End time must be after the start time."
		default:
			times.End = &end
		}
	}

	if poster != nil {
		if msg := validatePoster(poster, maxBytes); msg != "" {
			fields["poster"] = msg
		}
	}

	if len(fields) > 0 {
		return nil, apperrors.NewFieldErrors(fields)
	}
	return times, nil
}

func validatePoster(poster *multipart.FileHeader, maxBytes int64) string {
	if poster.Size > maxBytes {
		return FileTooLargeMessage(maxBytes)
	}
	if poster.Size == 0 {
		return "The submitted file is empty."
	}

	file, err := poster.Open()
	if err != nil {
		return "Upload a valid image."
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := file.Read(head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	}
	return ""
}

// FromEvent fills the form with the values of an existing event
func (f *EventForm) FromEvent(e *models.Event, loc *time.Location) {
	f.Title = e.Title
	f.Description = e.Description
	f.Location = e.Location
	f.Start = helpers.FormatDateTimeLocal(e.Start.In(loc))
	f.End = ""
	if e.End != nil {
		f.End = helpers.FormatDateTimeLocal(e.End.In(loc))
	}
}
