package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TessdataPrefixEnv is read by the Tesseract library to locate traineddata.
const TessdataPrefixEnv = "TESSDATA_PREFIX"

// DefaultModelSource is used when no model source is configured.
const DefaultModelSource = "fast"

// modelSources maps a source name to the base URL traineddata is fetched from.
var modelSources = map[string]string{
	"fast":     "https://github.com/tesseract-ocr/tessdata_fast/raw/main/",
	"best":     "https://github.com/tesseract-ocr/tessdata_best/raw/main/",
	"standard": "https://github.com/tesseract-ocr/tessdata/raw/main/",
}

var modelClient = &http.Client{
	Timeout: 5 * time.Minute,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return fmt.Errorf("too many redirects (limit: 5)")
		}
		return nil
	},
}

// systemModelDirs lists where distribution packages install traineddata.
var systemModelDirs = []string{
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/share/tessdata",
	"/usr/local/share/tessdata",
	"/opt/homebrew/share/tessdata",
}

var (
	ensuredMu sync.Mutex
	ensured   = make(map[string]bool)
)

// ModelSourceURL returns the download base URL for source. A source that
// already is an http(s) URL is returned with a trailing slash.
func ModelSourceURL(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = DefaultModelSource
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if !strings.HasSuffix(source, "/") {
			source += "/"
		}
		return source, nil
	}
	base, ok := modelSources[strings.ToLower(source)]
	if !ok {
		return "", fmt.Errorf("%w: unknown model source %q", ErrModelUnavailable, source)
	}
	return base, nil
}

// EnsureModels makes sure <dir>/<lang>.traineddata exists for every language,
// downloading missing files from source.
//
// An empty dir means the system Tesseract install is used and nothing is
// checked. Each (dir, lang) pair is verified at most once per process.
func EnsureModels(ctx context.Context, dir, source string, langs ...string) error {
	if dir == "" {
		return nil
	}

	for _, lang := range langs {
		key := filepath.Join(dir, lang)

		ensuredMu.Lock()
		done := ensured[key]
		ensuredMu.Unlock()
		if done {
			continue
		}

		if err := ensureModel(ctx, dir, source, lang); err != nil {
			return err
		}

		ensuredMu.Lock()
		ensured[key] = true
		ensuredMu.Unlock()
	}
	return nil
}

// SystemModelDir returns the first system tessdata directory that holds a
// non-empty traineddata file for every language, or "" if there is none.
func SystemModelDir(langs ...string) string {
	for _, dir := range systemModelDirs {
		if hasModels(dir, langs) {
			return dir
		}
	}
	return ""
}

func hasModels(dir string, langs []string) bool {
	for _, lang := range langs {
		info, err := os.Stat(filepath.Join(dir, lang+".traineddata"))
		if err != nil || info.Size() == 0 {
			return false
		}
	}
	return true
}

func ensureModel(ctx context.Context, dir, source, lang string) error {
	dst := filepath.Join(dir, lang+".traineddata")
	if info, err := os.Stat(dst); err == nil && info.Size() > 0 {
		return nil
	}

	base, err := ModelSourceURL(source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create tessdata directory: %w", err)
	}

	if err := downloadModel(ctx, base+lang+".traineddata", dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrModelUnavailable, lang, err)
	}
	return nil
}

// downloadModel fetches url into dst through a temp file in the same directory.
func downloadModel(ctx context.Context, url, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", "ocr-smoke/1.0")

	resp, err := modelClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status code %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = fmt.Errorf("empty response body")
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(dst), err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to install %s: %w", filepath.Base(dst), err)
	}
	return nil
}
