// Package runner implements the single-image OCR smoke test.
//
// The flow prepares the environment, runs the image through the modern
// Predictor entry point and persists every result, and drops to the legacy
// entry point with a reduced configuration if anything in the modern path
// fails. Status lines go to the console writer; diagnostics go to the logger.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ocr-smoke/internal/config"
	"github.com/ironsheep/ocr-smoke/internal/logger"
	"github.com/ironsheep/ocr-smoke/internal/ocr"
)

const rule = "=================================================="

// PredictorFactory builds the modern OCR entry point.
type PredictorFactory func(ctx context.Context, opts ocr.Options) (ocr.Predictor, error)

// LegacyFactory builds the legacy OCR entry point.
type LegacyFactory func(ctx context.Context, opts ocr.Options) (ocr.LegacyRecognizer, error)

// Outcome is the result of Run.
type Outcome int

const (
	OutcomeMissingInput Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMissingInput:
		return "missing-input"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Runner orchestrates one smoke test run.
type Runner struct {
	cfg          *config.Config
	out          io.Writer
	log          *logrus.Entry
	newPredictor PredictorFactory
	newLegacy    LegacyFactory
	envOnce      sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets the console writer. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithLogger sets the diagnostic logger.
func WithLogger(entry *logrus.Entry) Option {
	return func(r *Runner) { r.log = entry }
}

// WithPredictorFactory replaces the Tesseract-backed modern entry point.
func WithPredictorFactory(f PredictorFactory) Option {
	return func(r *Runner) { r.newPredictor = f }
}

// WithLegacyFactory replaces the Tesseract-backed legacy entry point.
func WithLegacyFactory(f LegacyFactory) Option {
	return func(r *Runner) { r.newLegacy = f }
}

// New returns a Runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg: cfg,
		out: os.Stdout,
		log: logger.Discard(),
		newPredictor: func(ctx context.Context, o ocr.Options) (ocr.Predictor, error) {
			tess, err := ocr.NewTesseract(ctx, o)
			if err != nil {
				return nil, err
			}
			return tess, nil
		},
		newLegacy: func(ctx context.Context, o ocr.Options) (ocr.LegacyRecognizer, error) {
			tess, err := ocr.NewTesseract(ctx, o)
			if err != nil {
				return nil, err
			}
			return tess, nil
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PrepareEnvironment exports the tessdata location for the Tesseract library
// and creates the output directory.
//
// TESSDATA_PREFIX is written at most once per Runner and only when a
// tessdata directory is configured. Engines also receive the directory
// explicitly through ocr.Options.
func (r *Runner) PrepareEnvironment() error {
	var envErr error
	r.envOnce.Do(func() {
		if r.cfg.TessdataDir == "" {
			return
		}
		if err := os.Setenv(ocr.TessdataPrefixEnv, r.cfg.TessdataDir); err != nil {
			envErr = fmt.Errorf("failed to set %s: %w", ocr.TessdataPrefixEnv, err)
			return
		}
		r.log.WithField(ocr.TessdataPrefixEnv, r.cfg.TessdataDir).Debug("model location exported")
	})
	if envErr != nil {
		return envErr
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Run is the top-level flow. It never returns an error; failures are
// reported on the console and reflected in the Outcome.
func (r *Runner) Run(ctx context.Context) Outcome {
	fmt.Fprintln(r.out, "🚀 OCR Smoke Test - Tesseract")
	fmt.Fprintln(r.out, rule)

	if err := r.PrepareEnvironment(); err != nil {
		fmt.Fprintf(r.out, "⚠️  Environment setup incomplete: %v\n", err)
		r.log.WithError(err).Warn("environment setup failed")
	}

	imagePath := r.cfg.ImagePath
	if !fileExists(imagePath) {
		fmt.Fprintf(r.out, "📁 Waiting for you to add: %s\n", imagePath)
		fmt.Fprintf(r.out, "💡 Add your image at %s and run ocr-smoke again\n", imagePath)
		r.log.WithField("image", imagePath).Info("input image not found")
		return OutcomeMissingInput
	}

	if r.RunPrimary(ctx, imagePath) {
		fmt.Fprintln(r.out, "\n🎉 Success! OCR is working on this machine!")
		fmt.Fprintf(r.out, "📁 Check the '%s' folder for results\n", r.cfg.OutputDir)
		fmt.Fprintln(r.out, "🚀 Ready for deployment!")
		r.log.Info("smoke test succeeded")
		return OutcomeSucceeded
	}

	fmt.Fprintln(r.out, "\n❌ Test failed. Check the error messages above.")
	r.log.Warn("smoke test failed")
	return OutcomeFailed
}

// RunPrimary runs imagePath through the modern entry point and saves every
// result under the output directory. On any failure it reports the error and
// returns the outcome of RunFallback.
func (r *Runner) RunPrimary(ctx context.Context, imagePath string) bool {
	fmt.Fprintf(r.out, "🧪 Testing OCR with: %s\n", imagePath)

	if !fileExists(imagePath) {
		fmt.Fprintf(r.out, "❌ File not found: %s\n", imagePath)
		fmt.Fprintf(r.out, "💡 Make sure to add %s to the %s folder\n", filepath.Base(imagePath), filepath.Dir(imagePath))
		return false
	}

	err := r.attemptPrimary(ctx, imagePath)
	if err == nil {
		return true
	}

	r.log.WithError(err).Warn("primary OCR path failed")
	fmt.Fprintf(r.out, "❌ Error with new API: %v\n", err)
	fmt.Fprintln(r.out, "🔄 Trying fallback method...")
	return r.RunFallback(ctx, imagePath)
}

func (r *Runner) attemptPrimary(ctx context.Context, imagePath string) error {
	opts := r.engineOptions(ocr.Options{
		DocOrientationClassify: false,
		DocUnwarping:           false,
		TextlineOrientation:    true,
		Language:               "en",
	})

	fmt.Fprintln(r.out, "📱 Initializing OCR engine...")
	predictor, err := r.newPredictor(ctx, opts)
	if err != nil {
		return stageErr(StagePrimary, "init", err)
	}
	fmt.Fprintln(r.out, "✅ OCR engine initialized")

	fmt.Fprintf(r.out, "\n📄 OCR Results for %s\n", imagePath)
	fmt.Fprintln(r.out, rule)

	base := filepath.Join(r.cfg.OutputDir, stem(imagePath))
	for res, err := range predictor.Predict(ctx, imagePath) {
		if err != nil {
			return stageErr(StagePrimary, "predict", err)
		}

		fmt.Fprintln(r.out, "📝 Processing result...")
		fmt.Fprintln(r.out, res.Render())

		imgPath, err := res.SaveToImage(base)
		if err != nil {
			return stageErr(StagePrimary, "save image", err)
		}
		jsonPath, err := res.SaveToJSON(base)
		if err != nil {
			return stageErr(StagePrimary, "save json", err)
		}

		r.log.WithFields(logrus.Fields{
			"regions": len(res.Regions),
			"image":   imgPath,
			"json":    jsonPath,
		}).Debug("result saved")
		fmt.Fprintf(r.out, "✅ Results saved to %s*\n", base)
	}

	return nil
}

// RunFallback runs imagePath through the legacy entry point with the minimal
// configuration and prints every detection. It reports false on any error.
func (r *Runner) RunFallback(ctx context.Context, imagePath string) bool {
	if err := r.attemptFallback(ctx, imagePath); err != nil {
		r.log.WithError(err).Error("fallback OCR path failed")
		fmt.Fprintf(r.out, "✗ Fallback method also failed: %v\n", err)
		return false
	}
	return true
}

func (r *Runner) attemptFallback(ctx context.Context, imagePath string) error {
	opts := r.engineOptions(ocr.Options{
		TextlineOrientation: true,
		Language:            "en",
	})

	legacy, err := r.newLegacy(ctx, opts)
	if err != nil {
		return stageErr(StageFallback, "init", err)
	}

	result, err := legacy.OCR(ctx, imagePath)
	if err != nil {
		return stageErr(StageFallback, "ocr", err)
	}

	fmt.Fprintf(r.out, "\n--- Fallback OCR Results for %s ---\n", imagePath)

	detections := result.First()
	if len(detections) == 0 {
		fmt.Fprintln(r.out, "No text detected.")
		return nil
	}

	for _, d := range detections {
		fmt.Fprintf(r.out, "Text: '%s' | Confidence: %.3f | Position: %s\n", d.Text, d.Confidence, d.Box)
	}
	r.log.WithField("detections", len(detections)).Debug("fallback recognized")
	return nil
}

// engineOptions adds the configured model location to opts.
func (r *Runner) engineOptions(opts ocr.Options) ocr.Options {
	opts.TessdataDir = r.cfg.TessdataDir
	opts.ModelSource = r.cfg.ModelSource
	return opts
}

// stem returns the file name of path without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
