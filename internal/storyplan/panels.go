package storyplan

import (
	"fmt"

	"github.com/vlatan/storytime/internal/models"
)

// BuildPanels gives every plan panel, in order,
// a placeholder image carrying its 1-based index.
func (g *Generator) BuildPanels(plan *models.Plan) []models.Panel {

	panels := make([]models.Panel, 0, len(plan.Panels))
	for i, p := range plan.Panels {
		panels = append(panels, models.Panel{
			ImageURL:    PlaceholderURL(g.placeholder, i+1),
			CaptionText: g.sanitizer.Sanitize(p.Caption),
			ImagePrompt: g.sanitizer.Sanitize(p.ImagePrompt),
		})
	}

	return panels
}

// PlaceholderURL is the placeholder image for a panel
func PlaceholderURL(base string, index int) string {
	return fmt.Sprintf("%s?text=Panel+%d", base, index)
}
