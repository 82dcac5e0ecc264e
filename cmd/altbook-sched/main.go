package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"altbook/internal/config"
	"altbook/internal/cron"
	appLog "altbook/internal/log"
	"altbook/internal/schedule"
)

type flagConfig struct {
	configPath string
	dryRun     bool
	install    bool
	remove     bool
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "classes.yaml", "Path to the weekly class configuration")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Show the generated cron jobs without installing")
	flag.BoolVar(&cfg.install, "install", false, "Install the cron jobs into the user crontab")
	flag.BoolVar(&cfg.remove, "remove", false, "Remove the installed booking cron jobs")

	flag.Parse()
	return cfg
}

func main() {
	flags := parseFlags()
	store := cron.Store{}

	if flags.remove {
		os.Exit(removeTriggers(store))
	}
	os.Exit(installTriggers(flags, store))
}

func removeTriggers(store cron.Store) int {
	existing, err := store.Read()
	if err != nil {
		appLog.Error("failed to read crontab", err)
		return 1
	}

	updated, found := cron.Remove(existing)
	if !found {
		fmt.Println("No booking cron jobs found, nothing to remove")
		return 0
	}
	if err := store.Install(updated); err != nil {
		appLog.Error("failed to install updated crontab", err)
		return 1
	}
	fmt.Println("Removed booking cron jobs")
	return 0
}

func installTriggers(flags flagConfig, store cron.Store) int {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "path", flags.configPath)
		return 1
	}

	root, err := os.Getwd()
	if err != nil {
		appLog.Error("cannot resolve project root", err)
		return 1
	}

	logDir := filepath.Join(root, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		appLog.Error("cannot create log directory", err, "dir", logDir)
		return 1
	}

	opts := cron.BuildOptions{
		ProjectRoot: root,
		Binary:      bookingBinary(),
		LogDir:      logDir,
		MacOS:       runtime.GOOS == "darwin",
	}

	entries, err := cron.BuildEntries(cfg.Classes, opts)
	if err != nil {
		appLog.Error("failed to build triggers", err)
		return 1
	}
	block := cron.RenderBlock(entries, opts)

	fmt.Println("Generated cron jobs:")
	fmt.Println()
	fmt.Println(block)

	if flags.dryRun {
		printUpcoming(entries)
		fmt.Println("Dry run, no changes made to the crontab")
		fmt.Println("To install, run: altbook-sched --install")
		return 0
	}

	if !flags.install {
		fmt.Println("To install these cron jobs, run: altbook-sched --install")
		return 0
	}

	existing, err := store.Read()
	if err != nil {
		appLog.Error("failed to read crontab", err)
		return 1
	}
	if err := store.Install(cron.Merge(existing, block)); err != nil {
		appLog.Error("failed to install crontab", err)
		return 1
	}

	fmt.Println("Installed cron jobs. View them with: crontab -l")
	fmt.Printf("Logs will be written to %s\n", logDir)
	return 0
}

// printUpcoming previews the next concrete fire instants per class so the
// operator can eyeball the derived schedule before installing.
func printUpcoming(entries []cron.Entry) {
	now := time.Now()
	for _, e := range entries {
		fires, err := schedule.NextOccurrences(e.Trigger, 3, now)
		if err != nil {
			appLog.Warn("could not preview fire times", "class", e.Class.Name, "err", err)
			continue
		}
		fmt.Printf("Next runs for %s (%s %s):\n", e.Class.Name, e.Class.Day, e.Class.Time)
		for _, ft := range fires {
			fmt.Printf("  %s\n", ft.Format("Mon 2006-01-02 15:04"))
		}
	}
	fmt.Println()
}

// bookingBinary locates the altbook command, preferring a sibling of this
// executable so the crontab keeps working when PATH differs under cron.
func bookingBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return "altbook"
	}
	sibling := filepath.Join(filepath.Dir(exe), "altbook")
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	return "altbook"
}
