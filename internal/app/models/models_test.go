package models

import (
	"testing"
	"time"
)

func TestEvent_Status(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Minute)

	tests := []struct {
		name  string
		event Event
		want  EventStatus
	}{
		{"future", Event{Start: now.Add(time.Minute)}, EventUpcoming},
		{"starting now", Event{Start: now}, EventUpcoming},
		{"running", Event{Start: now.Add(-time.Hour), End: &later}, EventOngoing},
		{"finished", Event{Start: now.Add(-time.Hour), End: &earlier}, EventPast},
		{"started without end", Event{Start: now.Add(-time.Second)}, EventPast},
	}
	for _, tc := range tests {
		if got := tc.event.Status(now); got != tc.want {
			t.Errorf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestYearLabel(t *testing.T) {
	if got := YearLabel(2); got != "2nd Year" {
		t.Errorf("YearLabel(2) = %q", got)
	}
	if got := YearLabel(9); got != "Unknown Year" {
		t.Errorf("YearLabel(9) = %q", got)
	}
	if ValidYear(0) || ValidYear(6) || !ValidYear(5) {
		t.Error("ValidYear bounds wrong")
	}
}

func TestResourceType(t *testing.T) {
	if !ResourceTypePapers.Valid() || ResourceType("memes").Valid() {
		t.Error("Valid wrong")
	}
	if ResourceTypePapers.Label() != "Past Papers" {
		t.Errorf("label = %q", ResourceTypePapers.Label())
	}
	if len(ResourceTypes) != 5 {
		t.Errorf("expected 5 resource types, got %d", len(ResourceTypes))
	}
}

func TestSession_Active(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Hour)}
	if !s.Active(now) {
		t.Error("fresh session inactive")
	}
	if s.Active(now.Add(2 * time.Hour)) {
		t.Error("expired session active")
	}
	s.RevokedAt = &now
	if s.Active(now) {
		t.Error("revoked session active")
	}
}
