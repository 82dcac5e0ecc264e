package scraper

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"altbook/internal/model"
)

// Card is the raw text of one rendered class card, as pulled out of the DOM
// in a single pass. Title and Time come from structural selectors; Text is
// the card's full inner text used for free-text markers.
type Card struct {
	Href  string `json:"href"`
	Title string `json:"title"`
	Time  string `json:"time"`
	Text  string `json:"text"`
}

var spotsLeftRe = regexp.MustCompile(`(?i)Spots Left:\s*(\d+)`)

// parseCard converts a raw card into a ScheduleEntry. The spots count is
// parsed from a "Spots Left: N" pattern; a card without it has an unknown
// count, not zero. Fullness is signaled by "Full" or "Join Waitlist" text.
func parseCard(c Card) (model.ScheduleEntry, error) {
	if c.Href == "" {
		return model.ScheduleEntry{}, errors.New("card has no detail link")
	}

	entry := model.ScheduleEntry{
		Title: strings.TrimSpace(c.Title),
		Time:  strings.TrimSpace(c.Time),
		URL:   c.Href,
	}
	if entry.Title == "" {
		entry.Title = "Unknown"
	}

	if m := spotsLeftRe.FindStringSubmatch(c.Text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			entry.SpotsLeft = &n
		}
	}

	entry.IsFull = strings.Contains(c.Text, "Full") || strings.Contains(c.Text, "Join Waitlist")

	return entry, nil
}
