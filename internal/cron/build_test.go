package cron

import (
	"strings"
	"testing"

	"altbook/internal/model"
)

func buildOpts() BuildOptions {
	return BuildOptions{
		ProjectRoot: "/opt/altbook",
		Binary:      "/usr/local/bin/altbook",
		LogDir:      "/opt/altbook/logs",
	}
}

func TestBuildEntries(t *testing.T) {
	t.Run("renders one validated line per class", func(t *testing.T) {
		classes := []model.ClassDefinition{
			{Day: "Monday", Time: "4:30 PM", Name: "Hot Vinyasa", User: "me"},
			{Day: "Saturday", Time: "8:30 AM", Name: "LF3 Strong", User: "wife"},
		}

		entries, err := BuildEntries(classes, buildOpts())
		if err != nil {
			t.Fatalf("BuildEntries returned error: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}

		if !strings.HasPrefix(entries[0].Line, "30 15 * * 1 ") {
			t.Fatalf("monday line = %q, want prefix '30 15 * * 1 '", entries[0].Line)
		}
		if !strings.HasPrefix(entries[1].Line, "30 7 * * 6 ") {
			t.Fatalf("saturday line = %q, want prefix '30 7 * * 6 '", entries[1].Line)
		}
		if !strings.Contains(entries[0].Line, `--time "4:30 PM" --user me`) {
			t.Fatalf("monday command missing filters: %q", entries[0].Line)
		}
		if !strings.Contains(entries[0].Line, ">> /opt/altbook/logs/booking_monday.log 2>&1") {
			t.Fatalf("monday command missing log redirection: %q", entries[0].Line)
		}
	})

	t.Run("uses BSD date syntax on macOS", func(t *testing.T) {
		opts := buildOpts()
		opts.MacOS = true
		entries, err := BuildEntries([]model.ClassDefinition{
			{Day: "Monday", Time: "4:30 PM", Name: "Hot Vinyasa", User: "me"},
		}, opts)
		if err != nil {
			t.Fatalf("BuildEntries returned error: %v", err)
		}
		if !strings.Contains(entries[0].Line, "date -v+7d") {
			t.Fatalf("expected BSD date command: %q", entries[0].Line)
		}
	})

	t.Run("rejects an empty class list", func(t *testing.T) {
		if _, err := BuildEntries(nil, buildOpts()); err == nil {
			t.Fatalf("expected error for empty class list")
		}
	})

	t.Run("a bad class is skipped without aborting the rest", func(t *testing.T) {
		classes := []model.ClassDefinition{
			{Day: "Tuesday", Time: "12:30 AM", Name: "Night Owl", User: "me"}, // lead crosses midnight
			{Day: "Monday", Time: "4:30 PM", Name: "Hot Vinyasa", User: "me"},
		}
		entries, err := BuildEntries(classes, buildOpts())
		if err != nil {
			t.Fatalf("BuildEntries returned error: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].Class.Name != "Hot Vinyasa" {
			t.Fatalf("kept wrong class %q", entries[0].Class.Name)
		}
	})

	t.Run("fails when every class fails derivation", func(t *testing.T) {
		classes := []model.ClassDefinition{
			{Day: "Tuesday", Time: "12:30 AM", Name: "Night Owl", User: "me"},
		}
		if _, err := BuildEntries(classes, buildOpts()); err == nil {
			t.Fatalf("expected error when no trigger survives")
		}
	})
}

func TestBuildBlock(t *testing.T) {
	classes := []model.ClassDefinition{
		{Day: "Monday", Time: "4:30 PM", Name: "Hot Vinyasa", User: "me"},
	}
	block, err := BuildBlock(classes, buildOpts())
	if err != nil {
		t.Fatalf("BuildBlock returned error: %v", err)
	}

	for _, want := range []string{
		"SHELL=/bin/bash",
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"# Monday 4:30 PM - Hot Vinyasa",
		"# Books 7 days in advance, 1 hour before class (at 15:30)",
		"30 15 * * 1 ",
	} {
		if !strings.Contains(block, want) {
			t.Fatalf("block missing %q:\n%s", want, block)
		}
	}
}
