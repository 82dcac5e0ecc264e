package cron

import "strings"

// Sentinel markers delimiting the block this tool owns inside the user's
// crontab. Everything outside them is never touched.
const (
	MarkerStart = "# BEGIN ALTBOOK BOOKING"
	MarkerEnd   = "# END ALTBOOK BOOKING"
)

// Merge replaces the sentinel-delimited block in existing with block,
// preserving all unrelated lines and their order. When no markers are
// present the block is appended, separated by a blank line if needed.
// Merging the same block twice is idempotent.
//
// Leading and trailing blank lines of the crontab are normalized away; the
// interior of the unrelated content is kept verbatim.
func Merge(existing, block string) string {
	lines := splitLines(existing)
	lines = stripOwnedSection(lines)

	// Blank separator before our section when the tail is non-blank.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
		lines = append(lines, "")
	}

	lines = append(lines, MarkerStart)
	lines = append(lines, strings.TrimSpace(block))
	lines = append(lines, MarkerEnd)

	return strings.Join(lines, "\n") + "\n"
}

// Remove deletes the sentinel-delimited block from existing. The second
// return value is false when no block was found (nothing to remove).
func Remove(existing string) (string, bool) {
	lines := splitLines(existing)
	stripped := stripOwnedSection(lines)
	if len(stripped) == len(lines) {
		return existing, false
	}

	out := strings.TrimSpace(strings.Join(stripped, "\n"))
	if out != "" {
		out += "\n"
	}
	return out, true
}

func splitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(strings.TrimSpace(s), "\n")
}

// stripOwnedSection removes the lines from MarkerStart through MarkerEnd
// inclusive. Returns the input unchanged when either marker is missing.
func stripOwnedSection(lines []string) []string {
	start, end := -1, -1
	for i, line := range lines {
		if strings.Contains(line, MarkerStart) && start == -1 {
			start = i
		}
		if strings.Contains(line, MarkerEnd) {
			end = i
		}
	}
	if start == -1 || end == -1 || end < start {
		return lines
	}

	out := make([]string, 0, len(lines)-(end-start+1))
	out = append(out, lines[:start]...)
	out = append(out, lines[end+1:]...)
	return out
}
