package notify

import (
	"strings"
	"testing"

	"github.com/user/tubevibes/internal/model"
)

func TestFormatVideoMessage(t *testing.T) {
	video := &model.Video{
		Title:       "Go in 5 min",
		Description: strings.Repeat("a", maxDescription+50),
		VideoURL:    "/media/abc",
		Views:       1500,
		Duration:    model.PlaceholderDuration,
	}

	message := FormatVideoMessage(video, "https://tube.example.com/")

	if !strings.HasPrefix(message, "🎬 *Go in 5 min*") {
		t.Errorf("message should start with bold title, got %q", message)
	}
	if !strings.Contains(message, EscapeMarkdown("https://tube.example.com/media/abc")) {
		t.Errorf("message missing absolute link: %q", message)
	}
	if !strings.Contains(message, EscapeMarkdown("1.5K views")) {
		t.Errorf("message missing views: %q", message)
	}
	if strings.Contains(message, "⏱") {
		t.Errorf("placeholder duration should be omitted: %q", message)
	}
	if strings.Contains(message, strings.Repeat("a", maxDescription+1)) {
		t.Errorf("description not truncated: %q", message)
	}
}

func TestFormatVideoMessage_Nil(t *testing.T) {
	if got := FormatVideoMessage(nil, ""); got != "" {
		t.Errorf("FormatVideoMessage(nil) = %q, want empty", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a.b", `a\.b`},
		{"1+1=2!", `1\+1\=2\!`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := EscapeMarkdown(tt.in); got != tt.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
