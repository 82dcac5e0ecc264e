package scraper

import (
	appLog "altbook/internal/log"
	"altbook/internal/model"
)

// accumulator collects entries across scroll snapshots, deduplicating by
// detail URL. The booking page uses virtual scrolling: cards leave the DOM
// once off-screen and can reappear later, so identity must live outside the
// page.
type accumulator struct {
	seen    map[string]struct{}
	entries []model.ScheduleEntry
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[string]struct{})}
}

// Add folds one snapshot of rendered cards into the accumulated set and
// returns how many entries were new. A card that fails to parse is logged
// and skipped; it never aborts the snapshot.
func (a *accumulator) Add(cards []Card) int {
	added := 0
	for _, c := range cards {
		if _, ok := a.seen[c.Href]; ok {
			continue
		}

		entry, err := parseCard(c)
		if err != nil {
			appLog.Warn("skipping unparseable class card", "href", c.Href, "err", err)
			continue
		}

		a.seen[c.Href] = struct{}{}
		a.entries = append(a.entries, entry)
		added++
	}
	return added
}

// Entries returns the accumulated entries in first-seen order.
func (a *accumulator) Entries() []model.ScheduleEntry {
	return a.entries
}
