package notify

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/user/tubevibes/internal/model"
)

// Property: announcement completeness
// For any video, the message contains the escaped title and video link,
// and the description when present.
func TestProperty_MessageFormatCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	titleGen := gen.AnyString().SuchThat(func(s string) bool { return s != "" })
	urlGen := gen.RegexMatch(`https://example\.com/video/[a-z0-9]+\.mp4`)
	descGen := gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) <= maxDescription })

	properties.Property("message contains title", prop.ForAll(
		func(title, videoURL string) bool {
			message := FormatVideoMessage(&model.Video{Title: title, VideoURL: videoURL}, "")
			return strings.Contains(message, EscapeMarkdown(title))
		},
		titleGen,
		urlGen,
	))

	properties.Property("message contains video link", prop.ForAll(
		func(title, videoURL string) bool {
			message := FormatVideoMessage(&model.Video{Title: title, VideoURL: videoURL}, "")
			return strings.Contains(message, EscapeMarkdown(videoURL))
		},
		titleGen,
		urlGen,
	))

	properties.Property("message contains description when present", prop.ForAll(
		func(title, desc string) bool {
			message := FormatVideoMessage(&model.Video{Title: title, Description: desc}, "")
			return strings.Contains(message, EscapeMarkdown(desc))
		},
		titleGen,
		descGen,
	))

	properties.TestingRun(t)
}

// Property: escaping leaves no unescaped MarkdownV2 special character
func TestProperty_EscapeMarkdown(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	special := "_*[]()~`>#+-=|{}.!"

	properties.Property("every special character is preceded by a backslash", prop.ForAll(
		func(text string) bool {
			escaped := []rune(EscapeMarkdown(text))
			for i := 0; i < len(escaped); i++ {
				if escaped[i] == '\\' {
					// skip the escaped character
					i++
					continue
				}
				if strings.ContainsRune(special, escaped[i]) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
