// Package content holds the captions and pictures attached to hotspots,
// loads overrides from YAML, hot-reloads them and rasterizes them into
// images for the overlay.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed panels.yaml
var defaultPanelsYAML []byte

var (
	// ErrDuplicatePanel is returned when a document lists a hotspot twice.
	ErrDuplicatePanel = errors.New("duplicate panel")
	// ErrInvalidPanel is returned for panels without a hotspot id.
	ErrInvalidPanel = errors.New("invalid panel")
)

// Panel is the content shown for one hotspot.
type Panel struct {
	HotspotID string  `yaml:"hotspot"`
	Title     string  `yaml:"title"`
	Body      string  `yaml:"body"`
	FontSize  float32 `yaml:"font_size"` // world units

	// Light panels use white text on a dark card.
	Light bool `yaml:"light,omitempty"`

	Image      string     `yaml:"image,omitempty"`
	ImageScale [2]float32 `yaml:"image_scale,omitempty"`
}

// HasImage reports whether the panel shows a picture.
func (p Panel) HasImage() bool {
	return p.Image != "" && p.ImageScale[0] > 0 && p.ImageScale[1] > 0
}

// TextColor returns the caption color.
func (p Panel) TextColor() color.RGBA {
	if p.Light {
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	}
	return color.RGBA{0x00, 0x00, 0x00, 0xff}
}

// labelBackground is premultiplied: 0x11 of 0xb3 alpha.
var labelBackground = color.RGBA{0x11, 0x11, 0x11, 0xb3}

// Background returns the card color behind the caption.
func (p Panel) Background() color.RGBA {
	if p.Light {
		return color.RGBA{0x22, 0x22, 0x22, 0xe6}
	}
	return color.RGBA{0xdc, 0xdc, 0xdc, 0xe6}
}

// TitleLines splits the title on explicit line breaks.
func (p Panel) TitleLines() []string {
	return splitLines(p.Title)
}

// BodyLines splits the body on explicit line breaks.
func (p Panel) BodyLines() []string {
	return splitLines(p.Body)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type document struct {
	Panels []Panel `yaml:"panels"`
}

// Parse decodes a panel document.
func Parse(r io.Reader) ([]Panel, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode panels: %w", err)
	}

	seen := make(map[string]bool, len(doc.Panels))
	for i, p := range doc.Panels {
		if p.HotspotID == "" {
			return nil, fmt.Errorf("%w: entry %d has no hotspot", ErrInvalidPanel, i)
		}
		if p.FontSize < 0 {
			return nil, fmt.Errorf("%w: %s font_size %v", ErrInvalidPanel, p.HotspotID, p.FontSize)
		}
		if seen[p.HotspotID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePanel, p.HotspotID)
		}
		seen[p.HotspotID] = true
	}
	return doc.Panels, nil
}

// DefaultPanels returns the built-in captions for the room.
func DefaultPanels() []Panel {
	panels, err := Parse(bytes.NewReader(defaultPanelsYAML))
	if err != nil {
		panic(fmt.Sprintf("content: built-in panels: %v", err))
	}
	return panels
}
