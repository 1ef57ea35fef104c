package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed focus_catalog.yaml
var focusCatalogYAML []byte

// FocusCatalog is the fixed ordered list of thematic focus areas. Each
// generated item picks catalog[(itemIndex-1+offset) mod len], where offset is
// the user's completed-exercise count, so the rotation keeps advancing across
// batches instead of restarting at the top every time.
type FocusCatalog struct {
	areas []string
}

func LoadFocusCatalog() (*FocusCatalog, error) {
	var doc struct {
		Areas []string `yaml:"areas"`
	}
	if err := yaml.Unmarshal(focusCatalogYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse focus catalog: %w", err)
	}
	if len(doc.Areas) == 0 {
		return nil, fmt.Errorf("focus catalog is empty")
	}
	return &FocusCatalog{areas: doc.Areas}, nil
}

func (fc *FocusCatalog) Len() int {
	return len(fc.areas)
}

// At selects the focus area for a 1-based item index at a given rotation
// offset.
func (fc *FocusCatalog) At(itemIndex, offset int) string {
	n := len(fc.areas)
	idx := (itemIndex - 1 + offset) % n
	if idx < 0 {
		idx += n
	}
	return fc.areas[idx]
}
