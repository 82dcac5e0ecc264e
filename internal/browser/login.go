package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	appLog "altbook/internal/log"
)

// ErrLoginFailed means the site did not accept the credentials, detected by
// page content after submit.
var ErrLoginFailed = errors.New("login failed")

// Selector heuristics for the login form, ordered most-specific first. The
// site is a client-rendered app whose markup drifts, so each lookup is a
// chain of independent matchers.
var (
	revealSelectors = []string{
		`//*[self::a or self::button][contains(translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'log in')]`,
		`//*[self::a or self::button][contains(translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'), 'login')]`,
	}
	emailSelectors = []string{
		`input[type='email']`,
		`input[name='email']`,
		`input[placeholder*='email' i]`,
	}
	passwordSelectors = []string{
		`input[type='password']`,
	}
	submitSelectors = []string{
		`//button[contains(., 'Sign-In')]`,
		`//button[contains(., 'Sign In')]`,
	}
)

// Login drives the site's login form: optionally reveal the form, fill
// credentials, submit, then verify by page state. Two independent failure
// signals are checked after submit: an explicit "must be logged in" error
// string, and a still-visible email input (the form never went away). Either
// one means the session is not authenticated.
func (s *Session) Login(email, password string) error {
	appLog.Info("logging in", "email", email)

	if err := s.Navigate(s.BaseURL); err != nil {
		return err
	}

	// The form may already be on screen; a missing reveal control is fine.
	if err := s.ClickFirst(revealSelectors...); err != nil {
		appLog.Debug("no login reveal control, assuming form is visible")
	} else {
		s.Sleep(settleDelay)
	}

	if err := s.FillFirst(email, emailSelectors...); err != nil {
		s.Screenshot("debug_login_error.png")
		return fmt.Errorf("email input: %w", err)
	}
	if err := s.FillFirst(password, passwordSelectors...); err != nil {
		s.Screenshot("debug_login_error.png")
		return fmt.Errorf("password input: %w", err)
	}
	if err := s.ClickFirst(submitSelectors...); err != nil {
		s.Screenshot("debug_login_error.png")
		return fmt.Errorf("submit control: %w", err)
	}

	// Let the authentication round-trip finish.
	s.Sleep(3 * time.Second)

	text, err := s.BodyText()
	if err != nil {
		s.Screenshot("debug_login_error.png")
		return err
	}
	if strings.Contains(text, "You must be logged in") {
		s.Screenshot("debug_login_failed.png")
		return fmt.Errorf("%w: site reports not authenticated", ErrLoginFailed)
	}

	var emailInputs int
	if err := s.Eval(`document.querySelectorAll("input[type='email']").length`, &emailInputs); err != nil {
		return err
	}
	if emailInputs > 0 {
		s.Screenshot("debug_login_failed.png")
		return fmt.Errorf("%w: login form still present", ErrLoginFailed)
	}

	appLog.Info("login successful")
	return nil
}
