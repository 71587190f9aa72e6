// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"regexp"
	"strings"
)

// escapeSeq matches CSI sequences (colors, cursor moves, line erase) and
// the OSC hyperlink form some terminals emit.
var escapeSeq = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07`)

// StripAnsiCodes returns s without terminal escape sequences.
func StripAnsiCodes(s string) string {
	return escapeSeq.ReplaceAllString(s, "")
}

// LastFrame returns the text after the final carriage return of each line,
// which is what a terminal shows once a spinner or progress bar redraws in
// place. Escape sequences are stripped first.
func LastFrame(s string) string {
	lines := strings.Split(StripAnsiCodes(s), "\n")
	for i, line := range lines {
		if j := strings.LastIndexByte(line, '\r'); j >= 0 {
			lines[i] = line[j+1:]
		}
	}
	return strings.Join(lines, "\n")
}
