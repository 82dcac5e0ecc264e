package cron

import (
	"strings"
	"testing"
)

const sampleBlock = `# Monday 4:30 PM - Hot Vinyasa
30 15 * * 1 cd /opt/altbook && altbook --date $(date -d "+7 days" +\%Y-\%m-\%d) --time "4:30 PM" --user me`

func TestMerge(t *testing.T) {
	t.Run("appends with separator to a non-empty crontab", func(t *testing.T) {
		existing := "0 5 * * * /usr/local/bin/backup.sh\n"
		merged := Merge(existing, sampleBlock)

		if !strings.Contains(merged, "backup.sh") {
			t.Fatalf("unrelated line lost:\n%s", merged)
		}
		if !strings.Contains(merged, MarkerStart) || !strings.Contains(merged, MarkerEnd) {
			t.Fatalf("markers missing:\n%s", merged)
		}
		if !strings.Contains(merged, "backup.sh\n\n"+MarkerStart) {
			t.Fatalf("missing blank separator before owned section:\n%s", merged)
		}
	})

	t.Run("works on an empty crontab", func(t *testing.T) {
		merged := Merge("", sampleBlock)
		if !strings.HasPrefix(merged, MarkerStart) {
			t.Fatalf("expected owned section at top:\n%s", merged)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		existing := "MAILTO=me@example.com\n0 5 * * * /usr/local/bin/backup.sh\n"
		once := Merge(existing, sampleBlock)
		twice := Merge(once, sampleBlock)
		if once != twice {
			t.Fatalf("second merge changed content:\n--- once ---\n%s\n--- twice ---\n%s", once, twice)
		}
		if strings.Count(twice, MarkerStart) != 1 {
			t.Fatalf("owned section duplicated:\n%s", twice)
		}
	})

	t.Run("normalizes outer blank lines, keeps interior ones", func(t *testing.T) {
		existing := "\n\n0 5 * * * /usr/local/bin/backup.sh\n\n30 6 * * * /usr/local/bin/sync.sh\n\n\n"
		merged := Merge(existing, sampleBlock)
		if strings.HasPrefix(merged, "\n") {
			t.Fatalf("leading blank lines survived:\n%q", merged)
		}
		if !strings.Contains(merged, "backup.sh\n\n30 6") {
			t.Fatalf("interior blank line lost:\n%s", merged)
		}
	})

	t.Run("replaces a stale owned section in place", func(t *testing.T) {
		stale := Merge("0 5 * * * /usr/local/bin/backup.sh", "# old line\n1 1 * * 1 old-command")
		merged := Merge(stale, sampleBlock)
		if strings.Contains(merged, "old-command") {
			t.Fatalf("stale entry survived merge:\n%s", merged)
		}
		if !strings.Contains(merged, "Hot Vinyasa") {
			t.Fatalf("new entry missing:\n%s", merged)
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("deletes only the owned section", func(t *testing.T) {
		merged := Merge("0 5 * * * /usr/local/bin/backup.sh", sampleBlock)
		out, ok := Remove(merged)
		if !ok {
			t.Fatalf("expected removal to report success")
		}
		if strings.Contains(out, MarkerStart) || strings.Contains(out, "Hot Vinyasa") {
			t.Fatalf("owned section not removed:\n%s", out)
		}
		if !strings.Contains(out, "backup.sh") {
			t.Fatalf("unrelated line lost:\n%s", out)
		}
	})

	t.Run("is a no-op without markers", func(t *testing.T) {
		existing := "0 5 * * * /usr/local/bin/backup.sh\n"
		out, ok := Remove(existing)
		if ok {
			t.Fatalf("expected nothing to remove")
		}
		if out != existing {
			t.Fatalf("content changed on no-op removal:\n%s", out)
		}
	})
}
