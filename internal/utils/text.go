package utils

import "strings"

// Mask hides a secret for display, keeping only its last four characters
// when it is long enough for that to be safe.
func Mask(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// FirstLine returns the first line of command output without its line
// terminator.
func FirstLine(output string) string {
	line, _, _ := strings.Cut(output, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Wrap breaks text into lines of at most width runes, splitting at spaces.
// Existing line breaks are kept and words longer than width are not split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		col := 0
		for j, word := range strings.Fields(line) {
			n := len([]rune(word))
			switch {
			case j == 0:
			case col+1+n > width:
				b.WriteByte('\n')
				col = 0
			default:
				b.WriteByte(' ')
				col++
			}
			b.WriteString(word)
			col += n
		}
	}
	return b.String()
}
