package core

import "strings"

// splitLines breaks text into logical lines. A trailing newline contributes
// no phantom final line; the returned flag records its presence so
// joinLines can put it back. Empty text yields a single empty line, which
// gives zero-fingerprint anchors a landing spot.
func splitLines(text string) ([]string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		return lines[:len(lines)-1], true
	}
	return lines, false
}

// joinLines is the inverse of splitLines.
func joinLines(lines []string, trailingNewline bool) string {
	if len(lines) == 0 {
		return ""
	}
	s := strings.Join(lines, "\n")
	if trailingNewline {
		s += "\n"
	}
	return s
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
