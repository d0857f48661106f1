package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/yigit/clubhub/internal/app/models"
)

// DefaultDuration is used as the length of events without an end time
const DefaultDuration = time.Hour

// Feed describes the calendar being published
type Feed struct {
	Name    string
	BaseURL string // public site URL, used for event UIDs and links
}

// Build renders events as an iCalendar document
func (f Feed) Build(events []*models.Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//clubhub//events//EN")
	if f.Name != "" {
		cal.SetXWRCalName(f.Name)
	}

	host := strings.TrimPrefix(strings.TrimPrefix(f.BaseURL, "https://"), "http://")
	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("event-%d@%s", e.ID, host))
		ev.SetDtStampTime(now.UTC())
		ev.SetCreatedTime(e.CreatedAt.UTC())
		ev.SetStartAt(e.Start.UTC())
		if e.End != nil {
			ev.SetEndAt(e.End.UTC())
		} else {
			ev.SetEndAt(e.Start.Add(DefaultDuration).UTC())
		}
		ev.SetSummary(e.Title)
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if f.BaseURL != "" {
			ev.SetURL(f.BaseURL + "/#event-" + fmt.Sprint(e.ID))
		}
	}

	return cal.Serialize()
}
