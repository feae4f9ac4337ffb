package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kilianp07/avpp/pkg/export"
)

// Export formats understood by pkg/export.
const (
	FormatCPLEX = export.FormatCPLEX
	FormatCSV   = export.FormatCSV
	FormatJSON  = export.FormatJSON
)

// ExportConfig controls which artifacts the CLI writes after a run.
type ExportConfig struct {
	// Dir receives one file per AVPP and format.
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"`
}

// SetDefaults writes every format to ./out.
func (c *ExportConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	if len(c.Formats) == 0 {
		c.Formats = slices.Clone(export.Formats)
	}
}

// Validate rejects unknown formats.
func (c ExportConfig) Validate() error {
	if c.Dir == "" {
		return errors.New("dir is required")
	}
	for _, f := range c.Formats {
		if !slices.Contains(export.Formats, f) {
			return fmt.Errorf("unknown format %s", f)
		}
	}
	return nil
}

// Enabled reports whether format f is selected.
func (c ExportConfig) Enabled(f string) bool {
	return slices.Contains(c.Formats, f)
}
