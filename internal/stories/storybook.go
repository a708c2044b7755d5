package stories

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/vlatan/storytime/internal/models"
	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// Storybook renders a single story as an HTML document fragment
func (s *Service) Storybook(ctx context.Context, id string) ([]byte, error) {

	story, err := s.GetStory(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(StorybookMarkdown(story)), &buf); err != nil {
		return nil, fmt.Errorf("could not render storybook '%s': %w", id, err)
	}

	return buf.Bytes(), nil
}

// StorybookMarkdown lays out the title, the transcript and one section per panel
func StorybookMarkdown(story *models.Story) string {

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(story.Title))
	fmt.Fprintf(&sb, "*%s*\n\n", story.CreatedAt.UTC().Format("January 2, 2006"))

	if story.Transcript != "" {
		fmt.Fprintf(&sb, "> %s\n\n", escapeMarkdown(story.Transcript))
	}

	for i, panel := range story.Panels {
		fmt.Fprintf(&sb, "## Panel %d\n\n", i+1)
		fmt.Fprintf(&sb, "![Panel %d](<%s>)\n\n", i+1, panel.ImageURL)
		fmt.Fprintf(&sb, "%s\n\n", escapeMarkdown(panel.CaptionText))
		if panel.ImagePrompt != "" {
			fmt.Fprintf(&sb, "- prompt: %s\n\n", escapeMarkdown(panel.ImagePrompt))
		}
	}

	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
	"[", "\\[",
	"]", "\\]",
	"<", "\\<",
	">", "\\>",
	"#", "\\#",
	"!", "\\!",
	"\n", " ",
)

// escapeMarkdown keeps user text from turning into markup
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
