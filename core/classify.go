package core

import "strings"

// IsCommentLine reports whether the line, ignoring leading whitespace,
// begins with one of the markers.
func IsCommentLine(line string, markers []string) bool {
	_, _, _, ok := SplitMarker(line, markers)
	return ok
}

// SplitMarker splits a pure comment line into indent, marker and text such
// that indent+marker+text reproduces the line exactly. ok is false when
// the line does not start with a marker.
func SplitMarker(line string, markers []string) (indent, marker, text string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m) {
			return line[:len(line)-len(trimmed)], m, trimmed[len(m):], true
		}
	}
	return "", "", "", false
}

// FindInlineMarker scans a code line for a trailing comment marker,
// ignoring marker characters inside single-, double- or backtick-quoted
// strings and honoring backslash escapes. A marker only counts when the
// character before it is a space or tab, so glued forms like
// https://example.com or x#y stay code. Returns the byte offset of the
// marker, or -1.
func FindInlineMarker(line string, markers []string) int {
	var inSingle, inDouble, inBack, escaped bool
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && (inSingle || inDouble || inBack):
			escaped = true
		case ch == '\'' && !inDouble && !inBack:
			inSingle = !inSingle
		case ch == '"' && !inSingle && !inBack:
			inDouble = !inDouble
		case ch == '`' && !inSingle && !inDouble:
			inBack = !inBack
		default:
			if inSingle || inDouble || inBack {
				continue
			}
			if i == 0 || (line[i-1] != ' ' && line[i-1] != '\t') {
				continue
			}
			for _, m := range markers {
				if strings.HasPrefix(line[i:], m) {
					return i
				}
			}
		}
	}
	return -1
}
