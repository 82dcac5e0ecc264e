package booker

import (
	"time"

	"altbook/internal/browser"
	appLog "altbook/internal/log"
)

// Selector chains for the two-step confirm flow. The primary book control is
// tried structurally first, then by label; the confirm control only has a
// structural path.
var (
	bookSelectors = []string{
		`/html/body/div[4]/div/div/div/button`,
		`//button[contains(., 'Book Now')]`,
		`//button[contains(., 'Book')]`,
	}
	confirmSelectors = []string{
		`/html/body/div[5]/div/div[3]/div/button`,
	}
)

const dialogDelay = 2 * time.Second

// page is the slice of browser session behavior the booking flow drives.
// *browser.Session satisfies it.
type page interface {
	Navigate(url string) error
	ClickFirst(selectors ...string) error
	Sleep(d time.Duration)
	Screenshot(name string)
}

// Booker executes the site's two-step booking flow on a class detail page.
type Booker struct {
	Session *browser.Session
}

// Book opens the class detail page at detailURL (a path like
// "/booking/evt_x") and clicks through book then confirm. It reports success
// only when both controls were found and activated; every failure path
// captures a diagnostic screenshot and returns false rather than an error.
func (b *Booker) Book(detailURL string) bool {
	return book(b.Session, b.Session.BaseURL+detailURL)
}

func book(p page, url string) bool {
	appLog.Info("booking class", "url", url)

	if err := p.Navigate(url); err != nil {
		appLog.Error("class page navigation failed", err, "url", url)
		p.Screenshot("debug_booking_error.png")
		return false
	}

	if err := p.ClickFirst(bookSelectors...); err != nil {
		appLog.Error("book control not found", err, "url", url)
		p.Screenshot("debug_booking_error.png")
		return false
	}
	appLog.Info("clicked book control")

	// Let the confirmation dialog render, and keep a picture of it.
	p.Sleep(dialogDelay)
	p.Screenshot("debug_booking_confirmation.png")

	if err := p.ClickFirst(confirmSelectors...); err != nil {
		appLog.Error("confirm control not found", err, "url", url)
		p.Screenshot("debug_booking_error.png")
		return false
	}
	appLog.Info("clicked confirm control")

	p.Sleep(3 * time.Second)
	p.Screenshot("debug_booking_result.png")

	return true
}
