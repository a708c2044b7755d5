package ui

import (
	"fmt"
	"strings"

	"github.com/vlatan/storytime/internal/config"
	"github.com/vlatan/storytime/internal/models"
)

// TextFiles gets the map containing the generated text files
func (s *service) TextFiles() models.TextFiles {
	return s.textFiles
}

// parseTextFiles builds the text files the app serves
func parseTextFiles(cfg *config.Config) models.TextFiles {
	tf := make(models.TextFiles)
	tf["/robots.txt"] = &models.FileInfo{Bytes: buildRobotsTxt(cfg)}
	return tf
}

// buildRobotsTxt keeps crawlers away from the kids' uploads
func buildRobotsTxt(cfg *config.Config) []byte {
	var builder strings.Builder

	builder.WriteString("User-agent: *\n")
	builder.WriteString("Disallow: /api/\n")
	builder.WriteString("Disallow: /audio/\n")

	if cfg != nil && cfg.Domain != "" {
		fmt.Fprintf(&builder, "\n# %s://%s\n", cfg.Protocol, cfg.Domain)
	}

	return []byte(builder.String())
}
