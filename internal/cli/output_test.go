package cli

import (
	"bytes"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{name: "text format", input: "text", want: OutputFormatText},
		{name: "json format", input: "json", want: OutputFormatJSON},
		{name: "yaml format", input: "yaml", want: OutputFormatYAML},
		{name: "yml alias", input: "yml", want: OutputFormatYAML},
		{name: "empty string defaults to text", input: "", want: OutputFormatText},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputWriter_IsText(t *testing.T) {
	for format, want := range map[OutputFormat]bool{
		OutputFormatText: true,
		OutputFormatJSON: false,
		OutputFormatYAML: false,
	} {
		if got := NewOutputWriter(format, nil).IsText(); got != want {
			t.Errorf("IsText() for %s = %v, want %v", format, got, want)
		}
	}
}

func TestOutputWriter_Write(t *testing.T) {
	type testData struct {
		Name  string `json:"name" yaml:"name"`
		Value int    `json:"value" yaml:"value"`
	}
	data := testData{Name: "test", Value: 42}

	tests := []struct {
		name     string
		format   OutputFormat
		want     string
		wantText bool
	}{
		{
			name:   "json",
			format: OutputFormatJSON,
			want:   "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n",
		},
		{
			name:   "yaml",
			format: OutputFormatYAML,
			want:   "name: test\nvalue: 42\n",
		},
		{
			name:     "text calls textFunc",
			format:   OutputFormatText,
			want:     "",
			wantText: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			o := NewOutputWriter(tt.format, &buf)

			textCalled := false
			if err := o.Write(data, func() { textCalled = true }); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if textCalled != tt.wantText {
				t.Errorf("textFunc called = %v, want %v", textCalled, tt.wantText)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Write() output = %q, want %q", got, tt.want)
			}
		})
	}
}
