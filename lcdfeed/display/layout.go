package display

import "strings"

// Layout splits message into the two screen lines.
//
// The first '\n' separates the lines: line1 is up to Columns bytes before it
// and line2 up to Columns bytes after it. A second break is ordinary text.
// Without a break line1 is the first Columns bytes and twoLines is false.
// Bytes are not interpreted, so multi-byte UTF-8 sequences may be cut.
func Layout(message string) (line1, line2 string, twoLines bool) {
	k := strings.IndexByte(message, '\n')
	if k < 0 {
		return truncate(message, Columns), "", false
	}
	return truncate(message[:k], Columns), truncate(message[k+1:], Columns), true
}

// truncate slices s in place, no allocation.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
