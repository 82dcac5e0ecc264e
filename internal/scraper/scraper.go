package scraper

import (
	"fmt"
	"time"

	"altbook/internal/browser"
	appLog "altbook/internal/log"
	"altbook/internal/model"
)

const (
	// maxScrollSteps is the safety valve against a bottom condition that
	// never becomes true (malformed page, network stall).
	maxScrollSteps = 100
	// scrollStep is the fixed per-iteration scroll increment in pixels.
	scrollStep = 400
	// bottomTolerance absorbs sub-pixel rounding in scroll geometry.
	bottomTolerance = 10
	// stepDelay lets the virtual list materialize newly scrolled-in cards.
	stepDelay = 300 * time.Millisecond
)

// cardsJS extracts every currently rendered class card in one evaluation.
const cardsJS = `Array.from(document.querySelectorAll("a[href*='/booking/evt_']")).map(a => {
	const pick = sel => { const el = a.querySelector(sel); return el ? el.innerText : ""; };
	return {
		href:  a.getAttribute("href") || "",
		title: pick("span.rt-Text.rt-r-size-4.rt-r-weight-bold"),
		time:  pick("span.rt-Text.rt-r-size-2.rt-r-weight-bold"),
		text:  a.innerText || "",
	};
})`

// Scraper reads a full day's class listing off the virtual-scrolled booking
// page.
type Scraper struct {
	Session *browser.Session
}

// FetchSchedule navigates to the listing for date (DD-MM-YYYY) and
// accumulates the complete, deduplicated set of entries by scrolling through
// the virtualized list.
//
// Failures at the scrape level degrade to an empty result with a screenshot
// artifact; callers cannot distinguish "scrape failed" from "no classes that
// day" and must treat empty accordingly.
func (s *Scraper) FetchSchedule(date string) []model.ScheduleEntry {
	url := fmt.Sprintf("%s/booking?date=%s", s.Session.BaseURL, date)
	appLog.Info("fetching schedule", "date", date, "url", url)

	if err := s.Session.Navigate(url); err != nil {
		appLog.Error("schedule navigation failed", err, "date", date)
		s.Session.Screenshot("debug_schedule_error.png")
		return nil
	}

	acc := newAccumulator()

	steps := 0
	for ; steps < maxScrollSteps; steps++ {
		var cards []Card
		if err := s.Session.Eval(cardsJS, &cards); err != nil {
			appLog.Error("card extraction failed", err, "date", date)
			s.Session.Screenshot("debug_schedule_error.png")
			return nil
		}

		if added := acc.Add(cards); added > 0 {
			appLog.Debug("accumulated new cards", "added", added, "total", len(acc.Entries()))
		}

		top, client, height, err := s.Session.ScrollMetrics()
		if err != nil {
			appLog.Error("scroll metrics failed", err, "date", date)
			s.Session.Screenshot("debug_schedule_error.png")
			return nil
		}
		if top+client >= height-bottomTolerance {
			appLog.Debug("reached bottom of listing", "scroll", top+client, "height", height)
			break
		}

		if err := s.Session.ScrollBy(scrollStep); err != nil {
			appLog.Error("scroll failed", err, "date", date)
			s.Session.Screenshot("debug_schedule_error.png")
			return nil
		}
		s.Session.Sleep(stepDelay)
	}

	entries := acc.Entries()
	appLog.Info("schedule scrape complete", "date", date, "classes", len(entries), "scroll_steps", steps)
	return entries
}
