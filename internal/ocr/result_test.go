package ocr

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResult(t *testing.T) *Result {
	t.Helper()
	return &Result{
		InputPath: createImageWithText(t, "INVOICE 42", 2),
		Width:     220,
		Height:    80,
		Text:      "INVOICE 42\nTOTAL 10.00",
		Regions: []TextRegion{
			{
				Text:       "INVOICE 42",
				Confidence: 0.9312,
				Polygon:    polygonFromRect(image.Rect(40, 20, 180, 50)),
				Bounds:     Bounds{X1: 40, Y1: 20, X2: 180, Y2: 50},
			},
			{
				Text:       "TOTAL 10.00",
				Confidence: 0.4,
				Polygon:    polygonFromRect(image.Rect(40, 52, 190, 70)),
				Bounds:     Bounds{X1: 40, Y1: 52, X2: 190, Y2: 70},
			},
		},
	}
}

func TestResultRender(t *testing.T) {
	res := sampleResult(t)
	out := res.Render()

	for _, want := range []string{
		"regions: 2",
		`"INVOICE 42" confidence=0.931`,
		"box=[[40, 20], [180, 20], [180, 50], [40, 50]]",
		"  TOTAL 10.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestResultRender_Empty(t *testing.T) {
	res := &Result{InputPath: "blank.png", Width: 10, Height: 10}
	out := res.Render()

	if !strings.Contains(out, "regions: 0") {
		t.Errorf("Render() should report zero regions:\n%s", out)
	}
	if strings.Contains(out, "text:") {
		t.Errorf("Render() should omit empty text:\n%s", out)
	}
}

func TestResultSaveToJSON(t *testing.T) {
	res := sampleResult(t)
	base := filepath.Join(t.TempDir(), "table1")

	path, err := res.SaveToJSON(base)
	if err != nil {
		t.Fatalf("SaveToJSON failed: %v", err)
	}
	if path != base+".json" {
		t.Errorf("path: got %s, want %s", path, base+".json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read JSON: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Regions) != 2 {
		t.Fatalf("regions: got %d, want 2", len(decoded.Regions))
	}
	if decoded.Regions[0].Polygon[1] != (Point{X: 180, Y: 20}) {
		t.Errorf("polygon corner: got %+v", decoded.Regions[0].Polygon[1])
	}
	if decoded.Text != res.Text {
		t.Errorf("text: got %q, want %q", decoded.Text, res.Text)
	}
}

func TestResultSaveToImage(t *testing.T) {
	res := sampleResult(t)
	base := filepath.Join(t.TempDir(), "table1")

	path, err := res.SaveToImage(base)
	if err != nil {
		t.Fatalf("SaveToImage failed: %v", err)
	}
	if path != base+".png" {
		t.Errorf("path: got %s, want %s", path, base+".png")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open image: %v", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode image: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %s, want png", format)
	}

	src, err := os.Open(res.InputPath)
	if err != nil {
		t.Fatalf("failed to open input: %v", err)
	}
	defer src.Close()
	srcCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		t.Fatalf("failed to decode input: %v", err)
	}
	if cfg.Width != srcCfg.Width || cfg.Height != srcCfg.Height {
		t.Errorf("visualization %dx%d should match input %dx%d", cfg.Width, cfg.Height, srcCfg.Width, srcCfg.Height)
	}
}

func TestResultSaveToImage_MissingInput(t *testing.T) {
	res := &Result{InputPath: "/nonexistent/path/image.png"}

	if _, err := res.SaveToImage(filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("SaveToImage should fail when the input image is missing")
	}
}

func TestResultSave_Overwrites(t *testing.T) {
	res := sampleResult(t)
	base := filepath.Join(t.TempDir(), "table1")

	first, err := res.SaveToJSON(base)
	if err != nil {
		t.Fatalf("first SaveToJSON failed: %v", err)
	}
	before, _ := os.ReadFile(first)

	if _, err := res.SaveToJSON(base); err != nil {
		t.Fatalf("second SaveToJSON failed: %v", err)
	}
	after, _ := os.ReadFile(first)

	if string(before) != string(after) {
		t.Error("saving the same result twice should produce identical JSON")
	}
}
