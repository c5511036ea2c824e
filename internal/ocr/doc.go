// Package ocr provides Optical Character Recognition (OCR) functionality using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) behind two
// entry points:
//
//   - Predictor.Predict: the modern entry point. Returns a lazy, single-use
//     ResultSeq of *Result values that can render themselves and save a
//     visualization (PNG) and a structured copy (JSON).
//   - LegacyRecognizer.OCR: the older entry point. Returns a LegacyResult,
//     a nested slice of (box, text, confidence) detections.
//
// The Tesseract type implements both.
//
// # Prerequisites
//
// The Tesseract library must be installed for gosseract to link against:
//   - Ubuntu/Debian: apt-get install libtesseract-dev
//   - macOS: brew install tesseract
//
// # Model Data
//
// When Options.TessdataDir is set, NewTesseract checks for
// <lang>.traineddata in that directory and downloads missing files from the
// source named by Options.ModelSource:
//   - "fast" - tessdata_fast (default, smallest)
//   - "best" - tessdata_best (most accurate, largest)
//   - "standard" - tessdata
//   - any http(s) URL serving <lang>.traineddata files
//
// An empty TessdataDir uses whatever the system install provides.
//
// # Languages
//
// Short codes such as "en" are mapped to Tesseract codes ("eng"). Any other
// value is passed to Tesseract unchanged, so "eng+deu" works as expected.
//
// # Error Handling
//
// Construction fails for unsupported options (ErrUnsupportedOption) and for
// missing model data (ErrModelUnavailable). Recognition errors are yielded by
// the ResultSeq or returned by OCR.
//
// If line bounding box extraction fails, Predict still yields a Result with
// the full text and an empty Regions slice.
package ocr
