package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"altbook/internal/booker"
	"altbook/internal/browser"
	"altbook/internal/config"
	appLog "altbook/internal/log"
	"altbook/internal/model"
	"altbook/internal/notify"
	"altbook/internal/schedule"
	"altbook/internal/scraper"
)

type flagConfig struct {
	configPath string
	usersPath  string
	date       string // YYYY-MM-DD (config mode)
	timeFilter string
	user       string
	dryRun     bool
	headless   bool
	forWife    bool
}

func parseFlags() (flagConfig, []string) {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "classes.yaml", "Path to the weekly class configuration")
	flag.StringVar(&cfg.usersPath, "users", "users.yaml", "Path to the user credentials file")
	flag.StringVar(&cfg.date, "date", "", "Target class date (YYYY-MM-DD, defaults to today)")
	flag.StringVar(&cfg.timeFilter, "time", "", `Class time filter, e.g. "4:30 PM" (required when a day has several classes)`)
	flag.StringVar(&cfg.user, "user", "", "User filter (must match classes.yaml and users.yaml)")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Show what would be booked without booking")
	flag.BoolVar(&cfg.headless, "headless", true, "Run the browser headless")
	flag.BoolVar(&cfg.forWife, "for-wife", false, "Also notify the extra recipient from WIFE_EMAIL")

	flag.Parse()
	return cfg, flag.Args()
}

// headlessExplicit reports whether -headless was set on the command line, so
// the config file default does not override an explicit choice.
func headlessExplicit() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			set = true
		}
	})
	return set
}

func main() {
	// .env supplies the mail provider secrets; absence is fine, the mailer
	// validation below deals with it.
	_ = godotenv.Load()

	flags, args := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, aborting run", "signal", sig.String())
		cancel()
	}()

	var exitCode int
	if len(args) == 3 {
		// Direct mode: altbook DD-MM-YYYY "8:30 AM" "LF3 Strong"
		exitCode = runDirect(ctx, flags, args[0], args[1], args[2])
	} else if len(args) == 0 {
		exitCode = runFromConfig(ctx, flags)
	} else {
		fmt.Fprintln(os.Stderr, `usage: altbook [flags] [date time class]
  direct:  altbook "29-11-2025" "8:30 AM" "LF3 Strong"
  config:  altbook --date 2025-11-29 --time "8:30 AM" --user me`)
		exitCode = 1
	}
	os.Exit(exitCode)
}

// runDirect books one class named on the command line, with credentials from
// the ALTEA_EMAIL / ALTEA_PASSWORD environment.
func runDirect(ctx context.Context, flags flagConfig, venueDate, classTime, className string) int {
	if _, err := time.Parse("02-01-2006", venueDate); err != nil {
		appLog.Error("invalid date, expected DD-MM-YYYY", err, "date", venueDate)
		return 1
	}

	email := os.Getenv("ALTEA_EMAIL")
	password := os.Getenv("ALTEA_PASSWORD")
	if email == "" || password == "" {
		appLog.Error("missing credentials", fmt.Errorf("ALTEA_EMAIL and ALTEA_PASSWORD must be set"))
		return 1
	}

	mailer, mail := buildMailer()
	recipients := []string{}
	if mail.To != "" {
		recipients = append(recipients, mail.To)
	}
	if flags.forWife && mail.WifeEmail != "" {
		recipients = append(recipients, mail.WifeEmail)
	}

	req := bookingRequest{
		venueDate:  venueDate,
		classTime:  classTime,
		className:  className,
		email:      email,
		password:   password,
		headless:   flags.headless,
		dryRun:     flags.dryRun,
		recipients: recipients,
	}
	return executeBooking(ctx, req, mailer)
}

// runFromConfig resolves the class for the target date from classes.yaml and
// books it with that user's credentials. Called by the installed cron
// triggers.
func runFromConfig(ctx context.Context, flags flagConfig) int {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "path", flags.configPath)
		return 1
	}

	target := time.Now()
	if flags.date != "" {
		target, err = time.Parse("2006-01-02", flags.date)
		if err != nil {
			appLog.Error("invalid date, expected YYYY-MM-DD", err, "date", flags.date)
			return 1
		}
	}

	cls, ok := findClassForDate(cfg.Classes, target, flags.timeFilter, flags.user)
	if !ok {
		appLog.Info("no class configured for date, nothing to do",
			"date", target.Format("2006-01-02"), "weekday", target.Weekday().String(),
			"time_filter", flags.timeFilter, "user_filter", flags.user)
		return 0
	}

	users, err := config.LoadUsers(flags.usersPath)
	if err != nil {
		appLog.Error("failed to load users", err, "path", flags.usersPath)
		return 1
	}
	creds, err := users.Credentials(cls.User)
	if err != nil {
		appLog.Error("invalid credentials", err, "user", cls.User)
		return 1
	}

	headless := cfg.Headless()
	if headlessExplicit() {
		headless = flags.headless
	}

	mailer, mail := buildMailer()
	recipients := []string{creds.NotificationEmail}
	if flags.forWife && mail.WifeEmail != "" {
		recipients = append(recipients, mail.WifeEmail)
	}

	req := bookingRequest{
		class:       cls,
		venueDate:   target.Format("02-01-2006"),
		classTime:   cls.Time,
		className:   cls.Name,
		email:       creds.Email,
		password:    creds.Password,
		headless:    headless,
		dryRun:      flags.dryRun,
		recipients:  recipients,
		calendarURL: creds.CalendarWebhookURL,
	}
	return executeBooking(ctx, req, mailer)
}

// findClassForDate picks the configured class whose weekday matches target,
// narrowed by the optional time and user filters.
func findClassForDate(classes []model.ClassDefinition, target time.Time, timeFilter, userFilter string) (model.ClassDefinition, bool) {
	weekday := target.Weekday().String()
	for _, cls := range classes {
		if cls.Day != weekday {
			continue
		}
		if timeFilter != "" && cls.Time != timeFilter {
			continue
		}
		if userFilter != "" && cls.User != userFilter {
			continue
		}
		return cls, true
	}
	return model.ClassDefinition{}, false
}

// buildMailer constructs the notifier when the mail environment is complete;
// otherwise notifications are disabled with a warning, never fatally.
func buildMailer() (*notify.Mailer, config.Mail) {
	mail, err := config.LoadMail()
	if err != nil {
		appLog.Warn("email notifications disabled", "reason", err)
		return nil, config.Mail{}
	}
	return notify.NewMailer(mail), mail
}

type bookingRequest struct {
	class       model.ClassDefinition
	venueDate   string // DD-MM-YYYY
	classTime   string
	className   string
	email       string
	password    string
	headless    bool
	dryRun      bool
	recipients  []string
	calendarURL string
}

// executeBooking is the single sequential flow: login, scrape, match, book
// every bookable match, notify. The browser session is released on every
// exit path.
func executeBooking(ctx context.Context, req bookingRequest, mailer *notify.Mailer) int {
	appLog.Info("booking run starting",
		"date", req.venueDate, "time", req.classTime, "class", req.className,
		"headless", req.headless, "dry_run", req.dryRun)

	if req.dryRun {
		appLog.Info("dry run, no booking will be made")
		return 0
	}

	sess, err := browser.New(ctx, req.headless)
	if err != nil {
		appLog.Error("browser launch failed", err)
		return 1
	}
	defer sess.Close()

	if err := sess.Login(req.email, req.password); err != nil {
		appLog.Error("login failed, aborting run", err)
		return 1
	}

	entries := (&scraper.Scraper{Session: sess}).FetchSchedule(req.venueDate)
	appLog.Info("schedule fetched", "date", req.venueDate, "classes", len(entries))

	matches := schedule.Find(entries, req.className, req.classTime)
	if len(matches) == 0 {
		appLog.Warn("no matching class found", "class", req.className, "time", req.classTime)
		outcome := model.BookingOutcome{
			Class:     req.class,
			Entry:     model.ScheduleEntry{Title: req.className, Time: req.classTime},
			Date:      req.venueDate,
			Timestamp: time.Now(),
		}
		sendFailure(mailer, outcome, "Could not find the specified class in the schedule.", req.recipients)
		return 0
	}
	appLog.Info("matched classes", "count", len(matches))

	bk := &booker.Booker{Session: sess}
	calendar := notify.NewCalendarClient()

	for _, match := range matches {
		outcome := model.BookingOutcome{
			Class:     req.class,
			Entry:     match,
			Date:      req.venueDate,
			Timestamp: time.Now(),
		}

		if !match.Bookable() {
			spots := "unknown"
			if match.SpotsLeft != nil {
				spots = fmt.Sprint(*match.SpotsLeft)
			}
			appLog.Warn("class is full or not bookable", "title", match.Title, "spots_left", spots)
			sendFailure(mailer, outcome,
				fmt.Sprintf("Class is full or not bookable. Spots left: %s", spots), req.recipients)
			continue
		}

		outcome.Success = bk.Book(match.URL)
		if !outcome.Success {
			appLog.Error("booking failed", fmt.Errorf("book/confirm flow did not complete"), "title", match.Title)
			sendFailure(mailer, outcome, "Failed to complete booking process.", req.recipients)
			continue
		}

		appLog.Info("successfully booked class", "title", match.Title, "time", match.Time)

		if err := calendar.AddEvent(req.calendarURL, outcome, time.Hour); err != nil {
			appLog.Warn("calendar sync failed", "err", err)
		}
		if mailer != nil {
			if err := mailer.SendSuccess(outcome, req.recipients); err != nil {
				appLog.Warn("success notification failed", "err", err)
			}
		}
	}

	return 0
}

func sendFailure(mailer *notify.Mailer, outcome model.BookingOutcome, reason string, recipients []string) {
	outcome.Reason = reason
	if mailer == nil {
		return
	}
	if err := mailer.SendFailure(outcome, reason, recipients); err != nil {
		appLog.Warn("failure notification failed", "err", err)
	}
}
