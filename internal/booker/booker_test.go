package booker

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakePage scripts the browser interactions of one booking attempt. The
// first ClickFirst call is the book control, the second the confirm control.
type fakePage struct {
	navErr     error
	bookErr    error
	confirmErr error

	navigated string
	clicks    int
}

func (f *fakePage) Navigate(url string) error {
	f.navigated = url
	return f.navErr
}

func (f *fakePage) ClickFirst(selectors ...string) error {
	f.clicks++
	switch f.clicks {
	case 1:
		return f.bookErr
	case 2:
		return f.confirmErr
	}
	return errors.New("unexpected third click")
}

func (f *fakePage) Sleep(time.Duration) {}

func (f *fakePage) Screenshot(string) {}

func TestBook(t *testing.T) {
	const url = "https://myaltea.app/booking/evt_abc"

	t.Run("succeeds only when both controls activate", func(t *testing.T) {
		p := &fakePage{}
		if !book(p, url) {
			t.Fatalf("book reported failure with both controls present")
		}
		if p.clicks != 2 {
			t.Fatalf("clicked %d controls, want 2 (book then confirm)", p.clicks)
		}
		if p.navigated != url {
			t.Fatalf("navigated to %q, want %q", p.navigated, url)
		}
	})

	t.Run("fails when navigation fails", func(t *testing.T) {
		p := &fakePage{navErr: errors.New("net::ERR_TIMED_OUT")}
		if book(p, url) {
			t.Fatalf("book reported success despite failed navigation")
		}
		if p.clicks != 0 {
			t.Fatalf("clicked %d controls after failed navigation, want 0", p.clicks)
		}
	})

	t.Run("fails when the book control is missing", func(t *testing.T) {
		p := &fakePage{bookErr: errors.New("control not found")}
		if book(p, url) {
			t.Fatalf("book reported success without the book control")
		}
		if p.clicks != 1 {
			t.Fatalf("clicked %d controls, want 1 (no confirm attempt)", p.clicks)
		}
	})

	t.Run("fails when the confirm control is missing", func(t *testing.T) {
		p := &fakePage{confirmErr: errors.New("control not found")}
		if book(p, url) {
			t.Fatalf("book reported success without the confirm control")
		}
		if p.clicks != 2 {
			t.Fatalf("clicked %d controls, want 2", p.clicks)
		}
	})
}

func TestSelectorChains(t *testing.T) {
	// The label fallbacks keep booking alive when the structural path drifts.
	var hasLabel bool
	for _, sel := range bookSelectors {
		if strings.Contains(sel, "Book") {
			hasLabel = true
		}
	}
	if !hasLabel {
		t.Fatalf("book selector chain has no label fallback: %v", bookSelectors)
	}
	if len(confirmSelectors) == 0 {
		t.Fatalf("confirm selector chain is empty")
	}
}
