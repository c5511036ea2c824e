package ocr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/ocr-smoke/internal/imaging"
)

// Result is the recognition output for a single image.
type Result struct {
	// InputPath is the image that was recognized.
	InputPath string `json:"input_path"`

	// Width and Height are the image dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Text is all recognized text with the engine's line breaks.
	Text string `json:"text"`

	// Regions are the detected text lines in reading order.
	Regions []TextRegion `json:"regions"`
}

// Render returns a human-readable summary of the result.
func (r *Result) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input: %s (%dx%d)\n", r.InputPath, r.Width, r.Height)
	fmt.Fprintf(&b, "regions: %d\n", len(r.Regions))
	for i, reg := range r.Regions {
		fmt.Fprintf(&b, "  [%d] %q confidence=%.3f box=%s\n", i, reg.Text, reg.Confidence, reg.Polygon)
	}
	if r.Text != "" {
		b.WriteString("text:\n")
		for _, line := range strings.Split(r.Text, "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// SaveToImage draws the detected regions over the input image and writes
// base + ".png". It returns the written path.
func (r *Result) SaveToImage(base string) (string, error) {
	img, err := imaging.Load(r.InputPath)
	if err != nil {
		return "", err
	}

	boxes := make([]imaging.Box, 0, len(r.Regions))
	for _, reg := range r.Regions {
		boxes = append(boxes, imaging.Box{
			Polygon:    reg.Polygon.ImagePoints(),
			Label:      fmt.Sprintf("%.2f", reg.Confidence),
			Confidence: reg.Confidence,
		})
	}

	path := base + ".png"
	if err := imaging.Save(imaging.DrawOverlay(img, boxes), path); err != nil {
		return "", err
	}
	return path, nil
}

// SaveToJSON writes the result as indented JSON to base + ".json" and
// returns the written path.
func (r *Result) SaveToJSON(base string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	path := base + ".json"
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
