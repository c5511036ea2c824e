package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestConfidenceColor_Endpoints(t *testing.T) {
	low := ConfidenceColor(0)
	high := ConfidenceColor(1)

	if low.R <= low.G {
		t.Errorf("low confidence should be red-dominant, got %+v", low)
	}
	if high.G <= high.R {
		t.Errorf("high confidence should be green-dominant, got %+v", high)
	}
	if low.A != 255 || high.A != 255 {
		t.Errorf("colours should be opaque, got alpha %d and %d", low.A, high.A)
	}
}

func TestConfidenceColor_Clamps(t *testing.T) {
	if ConfidenceColor(-0.5) != ConfidenceColor(0) {
		t.Error("negative confidence should clamp to 0")
	}
	if ConfidenceColor(1.7) != ConfidenceColor(1) {
		t.Error("confidence above 1 should clamp to 1")
	}
}

func TestDrawOverlay_PreservesDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 80))

	out := DrawOverlay(src, nil)

	if out.Bounds().Dx() != 120 || out.Bounds().Dy() != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestDrawOverlay_OutlinesBox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.White)
		}
	}

	box := Box{
		Polygon: []image.Point{
			{X: 20, Y: 40}, {X: 80, Y: 40}, {X: 80, Y: 70}, {X: 20, Y: 70},
		},
		Confidence: 1,
	}
	out := DrawOverlay(src, []Box{box})

	want := ConfidenceColor(1)
	if got := out.RGBAAt(50, 40); got != want {
		t.Errorf("top edge pixel: got %+v, want %+v", got, want)
	}
	if got := out.RGBAAt(20, 55); got != want {
		t.Errorf("left edge pixel: got %+v, want %+v", got, want)
	}

	// Interior stays background.
	if got := out.RGBAAt(50, 55); got == want {
		t.Error("interior pixel should not be outlined")
	}
}

func TestDrawOverlay_ClipsOutOfBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))

	box := Box{
		Polygon: []image.Point{
			{X: -10, Y: -10}, {X: 200, Y: -10}, {X: 200, Y: 200}, {X: -10, Y: 200},
		},
		Label:      "0.50",
		Confidence: 0.5,
	}

	// Must not panic.
	out := DrawOverlay(src, []Box{box})
	if out == nil {
		t.Fatal("DrawOverlay returned nil")
	}
}

func TestDrawOverlay_LabelNearTop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 40))

	box := Box{
		Polygon:    []image.Point{{X: 5, Y: 2}, {X: 60, Y: 2}, {X: 60, Y: 30}, {X: 5, Y: 30}},
		Label:      "0.91",
		Confidence: 0.91,
	}
	out := DrawOverlay(src, []Box{box})

	// The label background is drawn inside the image, so some pixel near the
	// first corner carries the label colour tinted over the background.
	found := false
	for y := 0; y < 20 && !found; y++ {
		for x := 5; x < 40; x++ {
			if out.RGBAAt(x, y) == (color.RGBA{255, 255, 255, 255}) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected white label text near the top-left corner")
	}
}
