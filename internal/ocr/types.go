package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"strings"
)

var (
	// ErrUnsupportedOption is returned when an Options field has no
	// equivalent in the Tesseract engine.
	ErrUnsupportedOption = errors.New("unsupported OCR option")

	// ErrSequenceConsumed is yielded when a ResultSeq is ranged a second time.
	ErrSequenceConsumed = errors.New("result sequence already consumed")

	// ErrModelUnavailable is returned when model data cannot be located or fetched.
	ErrModelUnavailable = errors.New("OCR model unavailable")
)

// Point is a pixel coordinate with the origin at the top-left of the image.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("[%d, %d]", p.X, p.Y)
}

// Polygon is an ordered list of corner points, clockwise from the top-left.
type Polygon []Point

func (p Polygon) String() string {
	parts := make([]string, len(p))
	for i, pt := range p {
		parts[i] = pt.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ImagePoints converts the polygon to image.Point values for drawing.
func (p Polygon) ImagePoints() []image.Point {
	pts := make([]image.Point, len(p))
	for i, pt := range p {
		pts[i] = image.Pt(pt.X, pt.Y)
	}
	return pts
}

// polygonFromRect returns the four corners of r.
func polygonFromRect(r image.Rectangle) Polygon {
	return Polygon{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is one detected line of text with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content, trimmed of surrounding whitespace.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Polygon is the bounding geometry of the line.
	Polygon Polygon `json:"polygon"`

	// Bounds is the axis-aligned box around Polygon.
	Bounds Bounds `json:"bounds"`
}

// Detection is one entry of a LegacyResult: geometry, text and confidence.
type Detection struct {
	Box        Polygon
	Text       string
	Confidence float64
}

// LegacyResult is the nested shape returned by LegacyRecognizer.OCR.
//
// A nil LegacyResult means nothing was produced. Element 0 holds the
// detections of the single input image and may itself be empty.
type LegacyResult [][]Detection

// First returns the detections of the first image, or nil.
func (r LegacyResult) First() []Detection {
	if len(r) == 0 {
		return nil
	}
	return r[0]
}

// ResultSeq is a finite, single-use sequence of per-image results.
// Recognition runs while the sequence is ranged over.
type ResultSeq = iter.Seq2[*Result, error]

// Options parameterizes engine construction.
type Options struct {
	// DocOrientationClassify enables page orientation and script detection.
	DocOrientationClassify bool

	// DocUnwarping requests geometric correction of curved pages.
	// Tesseract has no equivalent; enabling it fails construction.
	DocUnwarping bool

	// TextlineOrientation enables detection of rotated and vertical text lines.
	TextlineOrientation bool

	// Language is a short code ("en") or a Tesseract code ("eng").
	Language string

	// TessdataDir is where traineddata files live. Empty uses the system install.
	TessdataDir string

	// ModelSource selects where missing traineddata files are downloaded from.
	ModelSource string
}

// Predictor is the modern entry point: one image in, a lazy result sequence out.
type Predictor interface {
	Predict(ctx context.Context, imagePath string) ResultSeq
}

// LegacyRecognizer is the older entry point returning nested detection tuples.
type LegacyRecognizer interface {
	OCR(ctx context.Context, imagePath string) (LegacyResult, error)
}
