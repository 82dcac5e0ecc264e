package cron

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	appLog "altbook/internal/log"
)

// Store reads and writes the invoking user's crontab via the crontab(1)
// command. The OS owns the persistent lifecycle of installed triggers; this
// type only moves text in and out.
type Store struct{}

// Read returns the current crontab content. A missing crontab (crontab -l
// exits non-zero on most systems when none exists) is treated as empty.
func (Store) Read() (string, error) {
	cmd := exec.Command("crontab", "-l")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			appLog.Debug("crontab -l exited non-zero, assuming empty crontab",
				"stderr", stderr.String())
			return "", nil
		}
		return "", fmt.Errorf("read crontab: %w", err)
	}
	return out.String(), nil
}

// Install replaces the crontab with content using a temporary file handed to
// crontab(1), so a partially written file is never installed.
func (Store) Install(content string) error {
	tmp, err := os.CreateTemp("", "altbook-crontab-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp crontab: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp crontab: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp crontab: %w", err)
	}

	cmd := exec.Command("crontab", tmpName)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install crontab: %w (stderr: %s)", err, stderr.String())
	}
	return nil
}
