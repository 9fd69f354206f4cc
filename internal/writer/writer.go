package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLen bounds the sanitized filename stem regardless of URL length.
const maxNameLen = 100

// Writer persists extracted payloads as pretty-printed JSON files under a
// single output directory.
type Writer struct {
	outputDir string
}

func New(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Save writes the payload to a file whose name is derived from the page URL.
// The output directory is created if it does not exist. Returns the path of
// the written file.
func (w *Writer) Save(data any, pageURL string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, Filename(pageURL))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// 2-space indent, HTML escaping off so non-ASCII text and symbols
	// survive verbatim.
	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	return path, nil
}

// ReadSaved loads a previously saved payload back from disk.
func ReadSaved(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return data, nil
}

// Filename derives the output filename for a page URL.
func Filename(pageURL string) string {
	return SanitizeURL(pageURL) + ".json"
}

// SanitizeURL turns a URL into a bounded filename stem: protocol stripped,
// every non-alphanumeric rune replaced with an underscore, truncated to
// maxNameLen runes. Idempotent: sanitizing a sanitized stem is a no-op.
func SanitizeURL(pageURL string) string {
	clean := strings.TrimPrefix(pageURL, "http://")
	clean = strings.TrimPrefix(clean, "https://")

	var b strings.Builder
	n := 0
	for _, r := range clean {
		if n == maxNameLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		n++
	}

	return b.String()
}
