// Package storyplan turns a transcript into a four panel story plan
// and the plan into panels ready to be stored.
package storyplan

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/vlatan/storytime/internal/content"
	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/internal/moderation"
)

// PanelCount is the number of panels in every plan
const PanelCount = 4

type panelTemplate struct {
	caption     *template.Template
	imagePrompt *template.Template
}

// Generator builds plans from a fixed set of narrative elements.
// It's safe for concurrent use.
type Generator struct {
	story        content.Story
	defaultTitle string
	templates    []panelTemplate
	sanitizer    *moderation.Sanitizer
	placeholder  string
}

// New parses the panel templates once.
// Exactly PanelCount templates are required.
func New(c *content.Content, sanitizer *moderation.Sanitizer, placeholderBaseURL string) (*Generator, error) {

	if len(c.Panels) != PanelCount {
		return nil, fmt.Errorf("got %d panel templates, want %d", len(c.Panels), PanelCount)
	}

	templates := make([]panelTemplate, 0, len(c.Panels))
	for i, p := range c.Panels {
		caption, err := parse(fmt.Sprintf("caption-%d", i+1), p.Caption)
		if err != nil {
			return nil, err
		}

		imagePrompt, err := parse(fmt.Sprintf("image-prompt-%d", i+1), p.ImagePrompt)
		if err != nil {
			return nil, err
		}

		templates = append(templates, panelTemplate{caption, imagePrompt})
	}

	return &Generator{
		story:        c.Story,
		defaultTitle: c.DefaultTitle,
		templates:    templates,
		sanitizer:    sanitizer,
		placeholder:  placeholderBaseURL,
	}, nil
}

// Generate builds the plan.
// The transcript is not used yet, every call produces the same plan.
func (g *Generator) Generate(transcript string) (*models.Plan, error) {

	panels := make([]models.PlanPanel, 0, len(g.templates))
	for i, t := range g.templates {
		caption, err := execute(t.caption, g.story)
		if err != nil {
			return nil, fmt.Errorf("panel %d caption: %w", i+1, err)
		}

		imagePrompt, err := execute(t.imagePrompt, g.story)
		if err != nil {
			return nil, fmt.Errorf("panel %d image prompt: %w", i+1, err)
		}

		panels = append(panels, models.PlanPanel{
			Caption:     g.sanitizer.Sanitize(caption),
			ImagePrompt: g.sanitizer.Sanitize(imagePrompt),
		})
	}

	return &models.Plan{
		Title: g.sanitizer.Sanitize(g.defaultTitle),
		Characters: []models.Character{
			{Name: g.story.Hero, Traits: g.story.Traits},
		},
		Panels: panels,
	}, nil
}

func parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("could not parse the %s template: %w", name, err)
	}
	return t, nil
}

func execute(t *template.Template, story content.Story) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, story); err != nil {
		return "", err
	}
	return b.String(), nil
}
