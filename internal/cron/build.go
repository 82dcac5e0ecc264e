package cron

import (
	"fmt"
	"strings"
	"time"

	robcron "github.com/robfig/cron/v3"

	appLog "altbook/internal/log"
	"altbook/internal/model"
	"altbook/internal/schedule"
)

// BuildOptions control how the crontab block is rendered.
type BuildOptions struct {
	// ProjectRoot is the working directory the cron command cds into.
	ProjectRoot string
	// Binary is the booking command to run, e.g. "/usr/local/bin/altbook".
	Binary string
	// LogDir receives per-class append logs.
	LogDir string
	// MacOS switches the embedded date arithmetic to BSD date syntax.
	MacOS bool

	LeadDays  int
	LeadHours int
}

func (o *BuildOptions) normalize() {
	if o.LeadDays == 0 {
		o.LeadDays = schedule.DefaultLeadDays
	}
	if o.LeadHours == 0 {
		o.LeadHours = schedule.DefaultLeadHours
	}
}

// Entry is one generated crontab line plus its human-readable comments.
type Entry struct {
	Class   model.ClassDefinition
	Trigger schedule.Trigger
	Line    string
}

// BuildEntries derives one crontab entry per class. A class whose trigger
// cannot be derived (bad time string, lead crossing midnight) is logged and
// skipped so the remaining classes still get installed. An empty class list
// is an error: there is nothing meaningful to install.
func BuildEntries(classes []model.ClassDefinition, opts BuildOptions) ([]Entry, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("no classes configured, nothing to install")
	}
	opts.normalize()

	entries := make([]Entry, 0, len(classes))
	for _, cls := range classes {
		trig, err := schedule.ComputeTrigger(cls, opts.LeadDays, opts.LeadHours)
		if err != nil {
			appLog.Error("skipping class, trigger derivation failed", err,
				"day", cls.Day, "time", cls.Time, "name", cls.Name)
			continue
		}

		line := renderLine(cls, trig, opts)

		// Round-trip the schedule fields through a real cron parser so a
		// malformed line never reaches the user's crontab.
		fields := strings.SplitN(line, " ", 6)
		if _, err := robcron.ParseStandard(strings.Join(fields[:5], " ")); err != nil {
			return nil, fmt.Errorf("generated invalid cron schedule %q: %w", line, err)
		}

		entries = append(entries, Entry{Class: cls, Trigger: trig, Line: line})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no installable triggers: every class failed derivation")
	}
	return entries, nil
}

func renderLine(cls model.ClassDefinition, trig schedule.Trigger, opts BuildOptions) string {
	// The target date is resolved at fire time: the class is leadDays ahead
	// of the moment the trigger runs.
	var dateCmd string
	if opts.MacOS {
		dateCmd = fmt.Sprintf(`$(date -v+%dd +\%%Y-\%%m-\%%d)`, opts.LeadDays)
	} else {
		dateCmd = fmt.Sprintf(`$(date -d "+%d days" +\%%Y-\%%m-\%%d)`, opts.LeadDays)
	}

	cmd := fmt.Sprintf(`cd %s && %s --date %s --time "%s" --user %s`,
		opts.ProjectRoot, opts.Binary, dateCmd, cls.Time, cls.User)

	if opts.LogDir != "" {
		cmd += fmt.Sprintf(" >> %s/booking_%s.log 2>&1", opts.LogDir, strings.ToLower(cls.Day))
	}

	return fmt.Sprintf("%d %d * * %d %s", trig.Minute, trig.Hour, trig.Weekday, cmd)
}

// BuildBlock derives and renders the full crontab block for classes.
func BuildBlock(classes []model.ClassDefinition, opts BuildOptions) (string, error) {
	entries, err := BuildEntries(classes, opts)
	if err != nil {
		return "", err
	}
	return RenderBlock(entries, opts), nil
}

// RenderBlock renders already-derived entries as the crontab block (header,
// environment, one commented entry per class) ready to be merged between
// sentinel markers.
func RenderBlock(entries []Entry, opts BuildOptions) string {
	opts.normalize()

	var b strings.Builder
	b.WriteString("# Fitness class booking cron jobs\n")
	b.WriteString("# Generated by altbook-sched on " + time.Now().Format("2006-01-02 15:04:05") + "\n")
	b.WriteString("\n")
	b.WriteString("SHELL=/bin/bash\n")
	b.WriteString("PATH=/usr/local/bin:/usr/bin:/bin\n")

	for _, e := range entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "# %s %s - %s\n", e.Class.Day, e.Class.Time, e.Class.Name)
		fmt.Fprintf(&b, "# Books %d days in advance, %d hour before class (at %02d:%02d)\n",
			opts.LeadDays, opts.LeadHours, e.Trigger.Hour, e.Trigger.Minute)
		b.WriteString(e.Line + "\n")
	}

	return b.String()
}
