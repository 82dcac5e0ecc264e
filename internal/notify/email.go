package notify

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"altbook/internal/config"
	appLog "altbook/internal/log"
	"altbook/internal/model"
)

const defaultAPIBase = "https://api.mailgun.net/v3"

// Mailer sends booking outcome notifications through the Mailgun HTTP API.
// Delivery is fire-and-forget from the caller's perspective: failures are
// for logging, never for masking the booking outcome.
type Mailer struct {
	client  *http.Client
	apiBase string
	cfg     config.Mail
}

// NewMailer builds a mailer from validated mail settings.
func NewMailer(cfg config.Mail) *Mailer {
	return &Mailer{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiBase: defaultAPIBase,
		cfg:     cfg,
	}
}

// SendSuccess emails a booking confirmation. When the class start time can
// be derived, an iCalendar invite is attached.
func (m *Mailer) SendSuccess(out model.BookingOutcome, recipients []string) error {
	subject := fmt.Sprintf("Booking Confirmed: %s on %s", out.Entry.Title, out.Date)

	var invite []byte
	if ics, err := BuildInvite(out, time.Hour); err != nil {
		appLog.Warn("could not build calendar invite", "err", err)
	} else {
		invite = ics
	}

	return m.send(recipients, subject, successHTML(out), invite)
}

// SendFailure emails a booking failure with the reason.
func (m *Mailer) SendFailure(out model.BookingOutcome, reason string, recipients []string) error {
	subject := fmt.Sprintf("Booking Failed: %s on %s", out.Entry.Title, out.Date)
	return m.send(recipients, subject, failureHTML(out, reason), nil)
}

func (m *Mailer) send(to []string, subject, html string, invite []byte) error {
	var body strings.Builder
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"from":    m.cfg.From,
		"subject": subject,
		"html":    html,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode mail: %w", err)
		}
	}
	for _, rcpt := range to {
		if err := w.WriteField("to", rcpt); err != nil {
			return fmt.Errorf("encode mail: %w", err)
		}
	}
	if invite != nil {
		part, err := w.CreateFormFile("attachment", "class.ics")
		if err != nil {
			return fmt.Errorf("encode mail attachment: %w", err)
		}
		if _, err := part.Write(invite); err != nil {
			return fmt.Errorf("encode mail attachment: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", m.apiBase, m.cfg.Domain)
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetBasicAuth("api", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send mail: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	appLog.Info("notification sent", "subject", subject, "recipients", strings.Join(to, ","))
	return nil
}

func successHTML(out model.BookingOutcome) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h1>Booking Successful</h1>")
	fmt.Fprintf(&b, "<h2>%s</h2>", out.Entry.Title)
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>Date: %s</li>", out.Date)
	fmt.Fprintf(&b, "<li>Time: %s</li>", out.Entry.Time)
	if out.Entry.SpotsLeft != nil {
		fmt.Fprintf(&b, "<li>Spots Left: %d</li>", *out.Entry.SpotsLeft)
	}
	if out.Entry.URL != "" {
		fmt.Fprintf(&b, `<li><a href="https://myaltea.app%s">View Class</a></li>`, out.Entry.URL)
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Your spot has been reserved. See you at the gym!</p>")
	fmt.Fprintf(&b, "<p><small>Booked at %s</small></p>", out.Timestamp.Format("2006-01-02 3:04:05 PM"))
	b.WriteString("</body></html>")
	return b.String()
}

func failureHTML(out model.BookingOutcome, reason string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString("<h1>Booking Failed</h1>")
	fmt.Fprintf(&b, "<h2>%s</h2>", out.Entry.Title)
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>Date: %s</li>", out.Date)
	fmt.Fprintf(&b, "<li>Time: %s</li>", out.Entry.Time)
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Error:</strong> %s</p>", reason)
	b.WriteString("<p>Please check availability and try booking manually if needed.</p>")
	fmt.Fprintf(&b, "<p><small>Attempted at %s</small></p>", out.Timestamp.Format("2006-01-02 3:04:05 PM"))
	b.WriteString("</body></html>")
	return b.String()
}
