package view

import "strings"

const (
	// MessageTextLimit is the limit of diagnostic texts and custom test output.
	MessageTextLimit = 1024

	truncatedSuffix = "\n\n(...)"
)

// TruncateMessage trims trailing blanks and cuts s to MessageTextLimit bytes.
func TruncateMessage(s string) string {
	s = strings.TrimRight(s, "\n ")
	if len(s) > MessageTextLimit {
		return s[:MessageTextLimit] + truncatedSuffix
	}
	return s
}
