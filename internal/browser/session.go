package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "altbook/internal/log"
)

// ErrControlNotFound is returned when none of the selectors in a fallback
// chain located a usable element.
var ErrControlNotFound = errors.New("control not found")

// DefaultBaseURL is the booking site root.
const DefaultBaseURL = "https://myaltea.app"

const (
	// navTimeout bounds a single navigation.
	navTimeout = 60 * time.Second
	// probeTimeout bounds one selector attempt inside a fallback chain.
	probeTimeout = 5 * time.Second
	// settleDelay lets client-side rendering catch up after a navigation.
	settleDelay = 3 * time.Second
)

// Session owns one headless-browser tab for the duration of a booking run.
// Exactly one Session exists per process; Close must run on every exit path.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc

	BaseURL  string
	DebugDir string
}

// New launches a Chromium instance via chromedp. The caller must Close the
// session, typically with defer immediately after the error check.
func New(parent context.Context, headless bool) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Force browser startup now so a broken Chromium install fails here and
	// not in the middle of the flow.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Session{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		BaseURL:     DefaultBaseURL,
		DebugDir:    ".",
	}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}

// Context exposes the chromedp context for task composition.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Navigate loads url and waits for the DOM to be ready, then a fixed settle
// delay for client-side rendering. Network idle is not awaited anywhere: the
// target site keeps websocket and analytics traffic open indefinitely.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, navTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Screenshot captures the viewport to DebugDir/name. Failures are logged and
// swallowed: a missing diagnostic must never change the outcome of a run.
func (s *Session) Screenshot(name string) {
	ctx, cancel := context.WithTimeout(s.ctx, probeTimeout)
	defer cancel()

	var png []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&png)); err != nil {
		appLog.Warn("screenshot capture failed", "name", name, "err", err)
		return
	}
	path := filepath.Join(s.DebugDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		appLog.Warn("screenshot write failed", "path", path, "err", err)
		return
	}
	appLog.Info("saved screenshot", "path", path)
}

// ClickFirst walks a fallback chain of selectors (CSS or XPath, detected by
// prefix) and clicks the first one that becomes visible. Returns
// ErrControlNotFound when the whole chain fails.
func (s *Session) ClickFirst(selectors ...string) error {
	for _, sel := range selectors {
		ctx, cancel := context.WithTimeout(s.ctx, probeTimeout)
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(sel, queryOption(sel)),
			chromedp.Click(sel, queryOption(sel)),
		)
		cancel()
		if err == nil {
			appLog.Debug("clicked control", "selector", sel)
			return nil
		}
		appLog.Debug("selector failed, trying next", "selector", sel, "err", err)
	}
	return fmt.Errorf("%w: tried %d selectors", ErrControlNotFound, len(selectors))
}

// FillFirst fills the first visible element of a selector fallback chain
// with value.
func (s *Session) FillFirst(value string, selectors ...string) error {
	for _, sel := range selectors {
		ctx, cancel := context.WithTimeout(s.ctx, probeTimeout)
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(sel, queryOption(sel)),
			chromedp.Click(sel, queryOption(sel)),
			chromedp.SendKeys(sel, value, queryOption(sel)),
		)
		cancel()
		if err == nil {
			appLog.Debug("filled input", "selector", sel)
			return nil
		}
		appLog.Debug("selector failed, trying next", "selector", sel, "err", err)
	}
	return fmt.Errorf("%w: tried %d selectors", ErrControlNotFound, len(selectors))
}

// Sleep blocks for d within the session context.
func (s *Session) Sleep(d time.Duration) {
	_ = chromedp.Run(s.ctx, chromedp.Sleep(d))
}

// Eval evaluates a JavaScript expression and unmarshals the result into out.
func (s *Session) Eval(expr string, out any) error {
	ctx, cancel := context.WithTimeout(s.ctx, probeTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(expr, out))
}

// ScrollMetrics reads the document scroll geometry used by the virtual
// scroll loop.
func (s *Session) ScrollMetrics() (scrollTop, clientHeight, scrollHeight float64, err error) {
	if err = s.Eval("document.documentElement.scrollTop", &scrollTop); err != nil {
		return
	}
	if err = s.Eval("document.documentElement.clientHeight", &clientHeight); err != nil {
		return
	}
	err = s.Eval("document.documentElement.scrollHeight", &scrollHeight)
	return
}

// ScrollBy scrolls the window vertically by delta pixels.
func (s *Session) ScrollBy(delta int) error {
	return s.Eval(fmt.Sprintf("window.scrollBy(0, %d); true", delta), nil)
}

// BodyText returns the rendered text of the whole page.
func (s *Session) BodyText() (string, error) {
	var text string
	if err := s.Eval("document.body.innerText", &text); err != nil {
		return "", fmt.Errorf("read page text: %w", err)
	}
	return text, nil
}

// queryOption picks the chromedp selector strategy: XPath expressions start
// with "/" or "//", everything else is a CSS query.
func queryOption(sel string) chromedp.QueryOption {
	if len(sel) > 0 && sel[0] == '/' {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
