package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/yigit/clubhub/internal/app/models"
)

func TestFeed_Build(t *testing.T) {
	start := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	events := []*models.Event{
		{ID: 1, Title: "Hack Night", Location: "Lab 3", Description: "Bring a laptop", Start: start, End: &end},
		{ID: 2, Title: "Open Day", Start: start.AddDate(0, 0, 7)},
	}

	out := Feed{Name: "Club events", BaseURL: "https://club.example.com"}.Build(events, start)

	for _, want := range []string{
		"X-WR-CALNAME:Club events",
		"UID:event-1@club.example.com",
		"SUMMARY:Hack Night",
		"LOCATION:Lab 3",
		"DTEND:20240401T210000Z",
		"DTEND:20240408T190000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("feed missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("feed has %d events", n)
	}
}
