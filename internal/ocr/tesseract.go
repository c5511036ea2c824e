package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ocr-smoke/internal/imaging"
)

// varVerticalText toggles Tesseract's detection of vertical text lines.
const varVerticalText = gosseract.SettableVariable("textord_tabfind_vertical_text")

// languageAliases maps short language codes to Tesseract language codes.
var languageAliases = map[string]string{
	"en":     "eng",
	"de":     "deu",
	"fr":     "fra",
	"es":     "spa",
	"it":     "ita",
	"pt":     "por",
	"ru":     "rus",
	"ch":     "chi_sim",
	"japan":  "jpn",
	"korean": "kor",
}

// ResolveLanguage returns the Tesseract language code for lang.
// Unknown codes are passed through; empty defaults to English.
func ResolveLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "eng"
	}
	if code, ok := languageAliases[strings.ToLower(lang)]; ok {
		return code
	}
	return lang
}

// Tesseract implements Predictor and LegacyRecognizer on top of gosseract.
//
// Each recognition call opens its own gosseract client and closes it before
// returning, so a Tesseract value holds no native resources.
type Tesseract struct {
	language     string
	tessdataDir  string
	pageSegMode  gosseract.PageSegMode
	verticalText bool
}

// NewTesseract validates opts and makes sure the required model data is present.
//
// Parameters:
//   - ctx: Bounds any traineddata download. Cancellation aborts construction.
//   - opts: Engine settings. Language accepts short codes ("en", "ch") or
//     Tesseract codes ("eng", "chi_sim"). TessdataDir and ModelSource select
//     where traineddata lives and where missing files are fetched from.
//
// Returns:
//   - *Tesseract: Ready to recognize; holds no native resources.
//   - error: Non-nil if an option is unsupported or models are unavailable.
//
// # Model Location
//
// With a TessdataDir, missing traineddata is downloaded into it first. If the
// download fails and a system install already carries every required model,
// the engine uses that install instead. An empty TessdataDir always uses the
// system install.
//
// # Errors
//
//   - Returns ErrUnsupportedOption if DocUnwarping is requested
//   - Returns ErrModelUnavailable (wrapped) if traineddata can be neither
//     downloaded nor found in a system install
//   - Returns the context error (wrapped) if ctx is canceled during download
func NewTesseract(ctx context.Context, opts Options) (*Tesseract, error) {
	if opts.DocUnwarping {
		return nil, fmt.Errorf("%w: document unwarping", ErrUnsupportedOption)
	}

	t := &Tesseract{
		language:     ResolveLanguage(opts.Language),
		tessdataDir:  opts.TessdataDir,
		pageSegMode:  gosseract.PSM_AUTO,
		verticalText: opts.TextlineOrientation,
	}

	models := strings.Split(t.language, "+")
	if opts.DocOrientationClassify {
		t.pageSegMode = gosseract.PSM_AUTO_OSD
		models = append(models, "osd")
	}

	if err := EnsureModels(ctx, opts.TessdataDir, opts.ModelSource, models...); err != nil {
		sys := ""
		if ctx.Err() == nil {
			sys = SystemModelDir(models...)
		}
		if sys == "" {
			return nil, fmt.Errorf("failed to prepare models: %w", err)
		}
		t.tessdataDir = sys
	}

	return t, nil
}

// Language returns the resolved Tesseract language code.
func (t *Tesseract) Language() string {
	return t.language
}

// Version returns the version string of the linked Tesseract library.
func (t *Tesseract) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// newClient returns a configured client. The caller must Close it.
func (t *Tesseract) newClient(imagePath string) (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if t.tessdataDir != "" {
		if err := client.SetTessdataPrefix(t.tessdataDir); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(strings.Split(t.language, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(t.pageSegMode); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	vertical := "0"
	if t.verticalText {
		vertical = "1"
	}
	if err := client.SetVariable(varVerticalText, vertical); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set %s: %w", varVerticalText, err)
	}

	if err := client.SetImage(imagePath); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	return client, nil
}

// Predict returns a sequence that recognizes imagePath when ranged over.
//
// Parameters:
//   - ctx: Checked before recognition starts.
//   - imagePath: Path to the image file. Supports PNG, JPEG, TIFF, BMP.
//
// Returns:
//   - ResultSeq: Lazy and single-use. Nothing runs until it is ranged over.
//
// # Sequence Semantics
//
// The sequence yields exactly one Result or one error. Ranging it a second
// time yields ErrSequenceConsumed without touching the engine. Result.Width
// and Result.Height describe the stored pixel frame, which is also the frame
// region coordinates are reported in.
//
// # Errors
//
// Errors are yielded, not returned:
//   - The context error if ctx is already canceled
//   - An error if the file is missing or not a decodable image
//   - An error if Tesseract cannot be configured or recognition fails
//
// If line boxes cannot be extracted, the full text is still yielded with an
// empty Regions slice.
func (t *Tesseract) Predict(ctx context.Context, imagePath string) ResultSeq {
	var consumed atomic.Bool
	return func(yield func(*Result, error) bool) {
		if consumed.Swap(true) {
			yield(nil, ErrSequenceConsumed)
			return
		}
		res, err := t.recognize(ctx, imagePath)
		if err != nil {
			yield(nil, err)
			return
		}
		yield(res, nil)
	}
}

func (t *Tesseract) recognize(ctx context.Context, imagePath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := imaging.LoadImageInfo(imagePath)
	if err != nil {
		return nil, err
	}

	client, err := t.newClient(imagePath)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Line boxes are best effort; the full text is still returned without them.
	regions, err := lineRegions(client)
	if err != nil {
		regions = []TextRegion{}
	}

	return &Result{
		InputPath: imagePath,
		Width:     info.Width,
		Height:    info.Height,
		Text:      strings.TrimSpace(text),
		Regions:   regions,
	}, nil
}

// OCR recognizes imagePath and returns line detections in the legacy shape.
//
// Parameters:
//   - ctx: Checked before recognition starts.
//   - imagePath: Path to the image file.
//
// Returns:
//   - LegacyResult: One element per page. Each detection carries the line
//     polygon, its text and a confidence in [0, 1]. An image without text
//     yields a one-element result whose first entry is empty.
//   - error: Non-nil if the context is canceled, the image cannot be read,
//     or line boxes cannot be extracted.
func (t *Tesseract) OCR(ctx context.Context, imagePath string) (LegacyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := t.newClient(imagePath)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	regions, err := lineRegions(client)
	if err != nil {
		return nil, err
	}

	var detections []Detection
	for _, r := range regions {
		detections = append(detections, Detection{
			Box:        r.Polygon,
			Text:       r.Text,
			Confidence: r.Confidence,
		})
	}

	return LegacyResult{detections}, nil
}

// lineRegions collects text-line boxes, dropping lines with no text.
func lineRegions(client *gosseract.Client) ([]TextRegion, error) {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to get bounding boxes: %w", err)
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       text,
			Confidence: float64(box.Confidence) / 100.0,
			Polygon:    polygonFromRect(box.Box),
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return regions, nil
}
