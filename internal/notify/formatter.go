package notify

import (
	"fmt"
	"strings"

	"github.com/user/tubevibes/internal/format"
	"github.com/user/tubevibes/internal/model"
)

// maxDescription is the longest description excerpt in an announcement
const maxDescription = 200

// EscapeMarkdown escapes special characters for Telegram MarkdownV2 format
func EscapeMarkdown(text string) string {
	// Characters that need to be escaped in MarkdownV2:
	// \ _ * [ ] ( ) ~ ` > # + - = | { } . !
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	result := text
	for _, char := range specialChars {
		result = strings.ReplaceAll(result, char, "\\"+char)
	}
	return result
}

// FormatVideoMessage formats a new upload announcement.
// baseURL prefixes relative video URLs; empty leaves them as is.
func FormatVideoMessage(video *model.Video, baseURL string) string {
	if video == nil {
		return ""
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("🎬 *%s*", EscapeMarkdown(video.Title)))

	if desc := excerpt(video.Description, maxDescription); desc != "" {
		parts = append(parts, fmt.Sprintf("📝 %s", EscapeMarkdown(desc)))
	}

	if video.Duration != "" && video.Duration != model.PlaceholderDuration {
		parts = append(parts, fmt.Sprintf("⏱ %s", EscapeMarkdown(video.Duration)))
	}

	parts = append(parts, fmt.Sprintf("👁 %s", EscapeMarkdown(format.ViewCount(video.Views))))

	if link := absoluteURL(video.VideoURL, baseURL); link != "" {
		parts = append(parts, fmt.Sprintf("🔗 %s", EscapeMarkdown(link)))
	}

	return strings.Join(parts, "\n")
}

func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}

func absoluteURL(u, baseURL string) string {
	if u == "" || isHTTPURL(u) || baseURL == "" {
		return u
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

func isHTTPURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
