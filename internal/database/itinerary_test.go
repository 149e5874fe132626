package database

import (
	"testing"
	"time"

	"github.com/createex/circle/internal/models"
)

func TestItinerariesOnFiltersByDay(t *testing.T) {
	d := newTestDB(t)
	alice := createUser(t, d, "alice", "+100")
	bob := createUser(t, d, "bob", "+200")

	day := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.Itinerary{
		{UserID: alice.ID, Name: "dentist", About: "checkup", Date: day.Add(9 * time.Hour), Time: "09:00"},
		{UserID: alice.ID, Name: "dinner", About: "with bob", Date: day.Add(19 * time.Hour), Time: "19:00"},
		{UserID: alice.ID, Name: "flight", About: "home", Date: day.Add(26 * time.Hour), Time: "02:00"},
		{UserID: bob.ID, Name: "gym", About: "legs", Date: day.Add(7 * time.Hour), Time: "07:00"},
	}
	for i := range entries {
		if err := d.CreateItinerary(&entries[i]); err != nil {
			t.Fatalf("create %q: %v", entries[i].Name, err)
		}
	}

	got, err := d.ItinerariesOn(alice.ID, day)
	if err != nil {
		t.Fatalf("ItinerariesOn() error = %v", err)
	}
	want := []string{"dentist", "dinner"}
	if len(got) != len(want) {
		t.Fatalf("got %d itineraries, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}

	got, err = d.ItinerariesOn(alice.ID, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ItinerariesOn(next day) error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "flight" {
		t.Errorf("next day = %v, want only the flight entry", got)
	}
}
