package scraper

import (
	"testing"
)

func TestParseCard(t *testing.T) {
	t.Run("extracts spots left from free text", func(t *testing.T) {
		entry, err := parseCard(Card{
			Href:  "/booking/evt_1",
			Title: "LF3 Strong Conditioning",
			Time:  "8:30 AM",
			Text:  "LF3 Strong Conditioning\n8:30 AM\nSpots Left: 4",
		})
		if err != nil {
			t.Fatalf("parseCard returned error: %v", err)
		}
		if entry.SpotsLeft == nil || *entry.SpotsLeft != 4 {
			t.Fatalf("spots left = %v, want 4", entry.SpotsLeft)
		}
		if entry.IsFull || !entry.Bookable() {
			t.Fatalf("entry unexpectedly full")
		}
	})

	t.Run("missing spots count means unknown, not zero", func(t *testing.T) {
		entry, err := parseCard(Card{Href: "/booking/evt_2", Title: "Hot Vinyasa", Time: "4:30 PM", Text: "Hot Vinyasa"})
		if err != nil {
			t.Fatalf("parseCard returned error: %v", err)
		}
		if entry.SpotsLeft != nil {
			t.Fatalf("spots left = %d, want unknown", *entry.SpotsLeft)
		}
	})

	t.Run("recognizes fullness markers", func(t *testing.T) {
		for _, text := range []string{"Pilates\nFull", "Pilates\nJoin Waitlist"} {
			entry, err := parseCard(Card{Href: "/booking/evt_3", Title: "Pilates", Time: "9:00 AM", Text: text})
			if err != nil {
				t.Fatalf("parseCard returned error: %v", err)
			}
			if !entry.IsFull || entry.Bookable() {
				t.Fatalf("card with text %q not marked full", text)
			}
		}
	})

	t.Run("rejects cards without a detail link", func(t *testing.T) {
		if _, err := parseCard(Card{Title: "Orphan"}); err == nil {
			t.Fatalf("expected error for card without href")
		}
	})

	t.Run("falls back to Unknown for a missing title", func(t *testing.T) {
		entry, err := parseCard(Card{Href: "/booking/evt_4", Time: "7:00 AM"})
		if err != nil {
			t.Fatalf("parseCard returned error: %v", err)
		}
		if entry.Title != "Unknown" {
			t.Fatalf("title = %q, want Unknown", entry.Title)
		}
	})
}

func TestAccumulatorDedup(t *testing.T) {
	card := func(id string) Card {
		return Card{Href: "/booking/evt_" + id, Title: id, Time: "8:30 AM", Text: id}
	}

	// Virtual scrolling: A,B visible first; B scrolls out; C,D appear with B
	// reappearing in a later snapshot.
	snapshots := [][]Card{
		{card("A"), card("B")},
		{card("C"), card("D"), card("B")},
	}

	acc := newAccumulator()
	if added := acc.Add(snapshots[0]); added != 2 {
		t.Fatalf("first snapshot added %d, want 2", added)
	}
	if added := acc.Add(snapshots[1]); added != 2 {
		t.Fatalf("second snapshot added %d, want 2 (B already seen)", added)
	}

	entries := acc.Entries()
	if len(entries) != 4 {
		t.Fatalf("accumulated %d entries, want 4", len(entries))
	}
	want := []string{"A", "B", "C", "D"}
	for i, title := range want {
		if entries[i].Title != title {
			t.Fatalf("entry %d = %q, want %q (first-seen order)", i, entries[i].Title, title)
		}
	}
}

func TestAccumulatorSkipsBadCards(t *testing.T) {
	acc := newAccumulator()
	added := acc.Add([]Card{
		{Href: "", Title: "broken"},
		{Href: "/booking/evt_ok", Title: "Fine", Time: "8:30 AM"},
	})
	if added != 1 {
		t.Fatalf("added %d, want 1", added)
	}
	if len(acc.Entries()) != 1 || acc.Entries()[0].Title != "Fine" {
		t.Fatalf("unexpected entries: %+v", acc.Entries())
	}
}
