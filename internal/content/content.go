// Package content holds the data tables behind a story:
// the banned terms, the narrative elements and the panel templates.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed default.toml
var defaultContent []byte

// Story holds the fixed narrative elements interpolated into the templates
type Story struct {
	Hero    string `toml:"hero"`
	Traits  string `toml:"traits"`
	Setting string `toml:"setting"`
	Problem string `toml:"problem"`
	Action  string `toml:"action"`
	Outcome string `toml:"outcome"`
}

// PanelTemplate is a text/template pair for a single panel
type PanelTemplate struct {
	Caption     string `toml:"caption"`
	ImagePrompt string `toml:"image_prompt"`
}

type Content struct {
	Transcript   string          `toml:"transcript"`
	DefaultTitle string          `toml:"default_title"`
	BannedTerms  []string        `toml:"banned_terms"`
	Story        Story           `toml:"story"`
	Panels       []PanelTemplate `toml:"panels"`
}

// Load loads the content from a TOML file.
// If the path is empty the embedded default content is used.
func Load(path string) (*Content, error) {

	data := defaultContent
	if path != "" {
		b, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("could not read the content file %q: %w", path, err)
		}
		data = b
	}

	return Parse(data)
}

// Default returns the embedded default content
func Default() *Content {
	c, err := Parse(defaultContent)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates TOML content
func Parse(data []byte) (*Content, error) {

	var c Content
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("could not decode the content: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown content keys: %v", undecoded)
	}

	if err = c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Content) validate() error {

	var errs []error

	if strings.TrimSpace(c.DefaultTitle) == "" {
		errs = append(errs, errors.New("empty default title"))
	}

	if strings.TrimSpace(c.Story.Hero) == "" {
		errs = append(errs, errors.New("empty story hero"))
	}

	for i, p := range c.Panels {
		if strings.TrimSpace(p.Caption) == "" || strings.TrimSpace(p.ImagePrompt) == "" {
			errs = append(errs, fmt.Errorf("panel %d has an empty template", i+1))
		}
	}

	return errors.Join(errs...)
}
