package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appLog "altbook/internal/log"
	"altbook/internal/model"
)

// CalendarClient pushes booked classes to a per-user calendar webhook (a
// deployed Google Apps Script endpoint that creates the event). Best-effort:
// callers log the returned error and move on.
type CalendarClient struct {
	client *http.Client
}

func NewCalendarClient() *CalendarClient {
	return &CalendarClient{client: &http.Client{Timeout: 30 * time.Second}}
}

type calendarEvent struct {
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type calendarResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// AddEvent posts the booked class to webhookURL. An empty URL is a no-op.
func (c *CalendarClient) AddEvent(webhookURL string, out model.BookingOutcome, duration time.Duration) error {
	if webhookURL == "" {
		appLog.Debug("no calendar webhook configured, skipping")
		return nil
	}

	start, err := classStart(out.Date, out.Entry.Time)
	if err != nil {
		return fmt.Errorf("calendar event time: %w", err)
	}

	payload := calendarEvent{
		Title:     out.Entry.Title,
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(duration).Format(time.RFC3339),
		Description: fmt.Sprintf("Booked via altbook\nClass: %s\nDate: %s\nTime: %s",
			out.Entry.Title, out.Date, out.Entry.Time),
		Location: Venue,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode calendar event: %w", err)
	}

	appLog.Info("adding to calendar", "title", out.Entry.Title, "date", out.Date, "time", out.Entry.Time)

	resp, err := c.client.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("calendar webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calendar webhook: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// The Apps Script replies with {"success": bool} when it replies at all;
	// an empty body counts as success.
	var cr calendarResponse
	if len(raw) > 0 && json.Unmarshal(raw, &cr) == nil && cr.Success != nil && !*cr.Success {
		return fmt.Errorf("calendar webhook: %s", cr.Error)
	}

	appLog.Info("calendar event created", "title", out.Entry.Title)
	return nil
}
