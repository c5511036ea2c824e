package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is a region to outline on an overlay.
type Box struct {
	// Polygon lists the corners in drawing order. The outline is closed.
	Polygon []image.Point

	// Label is drawn above the first corner. Empty means no label.
	Label string

	// Confidence selects the outline colour (0.0 red to 1.0 green).
	Confidence float64
}

var (
	lowConfidence  = colorful.Color{R: 0.86, G: 0.13, B: 0.13}
	highConfidence = colorful.Color{R: 0.10, G: 0.62, B: 0.24}
)

// ConfidenceColor maps a confidence score to a colour on a red to green ramp.
//
// Parameters:
//   - confidence: Score in [0, 1]. Values outside the range are clamped.
//
// Returns:
//   - color.RGBA: Opaque colour. 0 is red, 1 is green, and the blend runs
//     through HCL so midpoints stay saturated instead of turning brown.
func ConfidenceColor(confidence float64) color.RGBA {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	c := lowConfidence.BlendHcl(highConfidence, confidence).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// DrawOverlay returns a copy of img with a faded, desaturated background and
// every box outlined in its confidence colour.
//
// Parameters:
//   - img: Source image. It is not modified.
//   - boxes: Regions to outline, in img's pixel coordinates. Boxes with an
//     empty polygon are skipped.
//
// Returns:
//   - *image.RGBA: New image with the same size as img and a (0,0) origin.
//
// # Drawing
//
// Outlines are 2 pixels wide and closed. A non-empty Label is drawn just above
// the first corner on a tinted background, shifted down when it would leave
// the top of the image. Anything outside the image is clipped.
func DrawOverlay(img image.Image, boxes []Box) *image.RGBA {
	faded := adjust.Saturation(img, -0.6)
	faded = adjust.Brightness(faded, 0.25)

	// bild keeps the source bounds; normalise to a zero origin for drawing.
	bounds := image.Rect(0, 0, faded.Bounds().Dx(), faded.Bounds().Dy())
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, faded, faded.Bounds().Min, draw.Src)

	for _, box := range boxes {
		if len(box.Polygon) == 0 {
			continue
		}
		c := ConfidenceColor(box.Confidence)
		drawPolygon(result, box.Polygon, c)
		if box.Label != "" {
			origin := box.Polygon[0]
			drawLabel(result, origin.X, origin.Y-2, box.Label, color.RGBA{255, 255, 255, 255}, c)
		}
	}

	return result
}

// drawPolygon outlines pts with a 2 pixel wide closed path.
func drawPolygon(img *image.RGBA, pts []image.Point, c color.RGBA) {
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		drawLine(img, a, b, c)
		drawLine(img, a.Add(image.Pt(1, 1)), b.Add(image.Pt(1, 1)), c)
	}
}

// drawLine draws a Bresenham line from a to b. Pixels outside img are skipped.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	bounds := img.Bounds()

	x, y := a.X, a.Y
	for {
		if image.Pt(x, y).In(bounds) {
			img.SetRGBA(x, y, c)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// drawLabel draws text with its baseline at (x, y) on a filled background.
// Labels that would leave the top of the image are moved below y.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()

	if y-ascent < img.Bounds().Min.Y {
		y = img.Bounds().Min.Y + ascent + 1
	}

	fill := color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 200}
	rect := image.Rect(x-1, y-ascent-1, x+width+1, y+descent).Intersect(img.Bounds())
	draw.Draw(img, rect, image.NewUniform(fill), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
