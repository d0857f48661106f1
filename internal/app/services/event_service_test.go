package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/testutil/memstore"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func (f *fixture) event(t *testing.T, title string, start time.Time) *models.Event {
	t.Helper()
	e := &models.Event{Title: title, Start: start}
	if err := f.store.Events().Create(t.Context(), e); err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return e
}

func TestEventService_Partition(t *testing.T) {
	f := newFixture(t)
	f.events.now = func() time.Time { return testNow }

	f.event(t, "Last month", testNow.AddDate(0, -1, 0))
	f.event(t, "Yesterday", testNow.AddDate(0, 0, -1))
	f.event(t, "Right now", testNow)
	f.event(t, "Next week", testNow.AddDate(0, 0, 7))
	f.event(t, "Tomorrow", testNow.AddDate(0, 0, 1))

	p, err := f.events.Partition(t.Context())
	if err != nil {
		t.Fatalf("partition: %v", err)
	}

	if got := titles(p.Upcoming); strings.Join(got, ",") != "Right now,Tomorrow,Next week" {
		t.Errorf("upcoming = %v", got)
	}
	if got := titles(p.Past); strings.Join(got, ",") != "Yesterday,Last month" {
		t.Errorf("past = %v", got)
	}

	seen := map[int64]bool{}
	for _, e := range append(append([]*models.Event{}, p.Upcoming...), p.Past...) {
		if seen[e.ID] {
			t.Errorf("event %d listed twice", e.ID)
		}
		seen[e.ID] = true
	}
	if len(seen) != 5 {
		t.Errorf("partition covers %d of 5 events", len(seen))
	}
}

func TestEventService_Create(t *testing.T) {
	f := newFixture(t)
	poster := memstore.FileHeader(t, "poster", "hack.png", memstore.PNG)

	e, err := f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{
		Title:    "Hack Night",
		Location: "Lab 3",
		Start:    "2024-04-01T18:00",
		End:      "2024-04-01T23:00",
	}, poster)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !e.Start.Equal(time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", e.Start)
	}
	if e.End == nil || e.End.Sub(e.Start) != 5*time.Hour {
		t.Errorf("end = %v", e.End)
	}
	if e.CreatedBy == nil || *e.CreatedBy != adminPrincipal().UserID() {
		t.Errorf("created_by = %v", e.CreatedBy)
	}
	if !strings.HasPrefix(e.PosterPath, "events/posters/") || !f.files.Has(e.PosterPath) {
		t.Errorf("poster not stored: %q", e.PosterPath)
	}
}

func TestEventService_Create_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{
		Title: "Backwards", Start: "2024-04-01T18:00", End: "2024-04-01T17:00",
	}, nil)
	assertFieldError(t, err, "end", "End time must be after the start time.")

	_, err = f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{Title: "No start"}, nil)
	assertFieldError(t, err, "start", "This field is required.")

	_, err = f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{Title: "Bad start", Start: "next tuesday"}, nil)
	assertFieldError(t, err, "start", "Enter a valid date/time.")

	_, err = f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{Title: "Text poster", Start: "2024-04-01T18:00"},
		memstore.FileHeader(t, "poster", "poster.png", []byte("plain text, not an image")))
	assertFieldError(t, err, "poster", "")

	big := memstore.FileHeader(t, "poster", "big.png", memstore.PNG)
	big.Size = testMaxUpload + 1
	_, err = f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{Title: "Big poster", Start: "2024-04-01T18:00"}, big)
	assertFieldError(t, err, "poster", "Max file size is 20MB")

	if n, _ := f.store.Events().Count(t.Context()); n != 0 {
		t.Errorf("expected no events, got %d", n)
	}
	if paths := f.files.Paths(); len(paths) != 0 {
		t.Errorf("expected no stored files, got %v", paths)
	}
}

func TestEventService_Update_Poster(t *testing.T) {
	f := newFixture(t)
	e, err := f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{Title: "Talk", Start: "2024-04-01T18:00"},
		memstore.FileHeader(t, "poster", "v1.png", memstore.PNG))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first := e.PosterPath

	e, err = f.events.Update(t.Context(), adminPrincipal(), e.ID, &dto.EventForm{Title: "Talk", Start: "2024-04-01T19:00"}, nil)
	if err != nil {
		t.Fatalf("update without poster: %v", err)
	}
	if e.PosterPath != first || !f.files.Has(first) {
		t.Errorf("poster changed without upload: %q", e.PosterPath)
	}

	e, err = f.events.Update(t.Context(), adminPrincipal(), e.ID, &dto.EventForm{Title: "Talk", Start: "2024-04-01T19:00"},
		memstore.FileHeader(t, "poster", "v2.png", memstore.PNG))
	if err != nil {
		t.Fatalf("update with poster: %v", err)
	}
	second := e.PosterPath
	if second == first || f.files.Has(first) || !f.files.Has(second) {
		t.Errorf("poster not replaced: first=%q second=%q files=%v", first, second, f.files.Paths())
	}

	e, err = f.events.Update(t.Context(), adminPrincipal(), e.ID, &dto.EventForm{Title: "Talk", Start: "2024-04-01T19:00", ClearPoster: true}, nil)
	if err != nil {
		t.Fatalf("clear poster: %v", err)
	}
	if e.PosterPath != "" || f.files.Has(second) {
		t.Errorf("poster not cleared: %q files=%v", e.PosterPath, f.files.Paths())
	}
}

func TestEventService_Delete(t *testing.T) {
	f := newFixture(t)
	e, err := f.events.Create(t.Context(), adminPrincipal(), &dto.EventForm{Title: "Talk", Start: "2024-04-01T18:00"},
		memstore.FileHeader(t, "poster", "talk.png", memstore.PNG))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.events.Delete(t.Context(), studentPrincipal(), e.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student delete: expected permission denied, got %v", err)
	}
	if err := f.events.Delete(t.Context(), adminPrincipal(), e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.files.Has(e.PosterPath) {
		t.Error("poster still stored")
	}
	if err := f.events.Delete(t.Context(), adminPrincipal(), e.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestEventService_Calendar(t *testing.T) {
	f := newFixture(t)
	f.event(t, "Hack Night", testNow.Add(48*time.Hour))

	feed, err := f.events.Calendar(t.Context())
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Hack Night", "END:VEVENT"} {
		if !strings.Contains(feed, want) {
			t.Errorf("feed missing %q", want)
		}
	}
}

func titles(events []*models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}
