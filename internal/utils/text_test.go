package utils

import "testing"

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: "****"},
		{name: "short", input: "abc", want: "****"},
		{name: "exactly 8 chars", input: "12345678", want: "****"},
		{name: "9 chars", input: "123456789", want: "****6789"},
		{name: "api key", input: "xK3mPq9ZrT5vW8yB2nC4", want: "****2nC4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mask(tt.input); got != tt.want {
				t.Errorf("Mask() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "single line", output: "secret\n", want: "secret"},
		{name: "no newline", output: "secret", want: "secret"},
		{name: "multiple lines", output: "secret\nlogin: alice\n", want: "secret"},
		{name: "crlf", output: "secret\r\n", want: "secret"},
		{name: "empty", output: "", want: ""},
		{name: "leading spaces kept", output: "  pass word \n", want: "  pass word "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstLine(tt.output); got != tt.want {
				t.Errorf("FirstLine(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "fits", text: "short text", width: 20, want: "short text"},
		{name: "wraps at spaces", text: "one two three four", width: 9, want: "one two\nthree\nfour"},
		{name: "exact width", text: "abc def", width: 7, want: "abc def"},
		{name: "long word kept whole", text: "a verylongword b", width: 5, want: "a\nverylongword\nb"},
		{name: "line breaks kept", text: "first\n\nsecond", width: 80, want: "first\n\nsecond"},
		{name: "zero width", text: "a  b", width: 0, want: "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.width); got != tt.want {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
