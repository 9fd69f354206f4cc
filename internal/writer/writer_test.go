package writer

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRoundTrip(t *testing.T) {
	payload := map[string]any{
		"title": "Café – zolderkamer ☕",
		"count": float64(3),
		"tags":  []any{"a", "b"},
		"nested": map[string]any{
			"ok":    true,
			"ratio": 1.5,
		},
		"none": nil,
	}

	w := New(t.TempDir())
	path, err := w.Save(payload, "https://example.com/listing/42")
	require.NoError(t, err)

	got, err := ReadSaved(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSaveOutputFormat(t *testing.T) {
	w := New(t.TempDir())
	path, err := w.Save(map[string]any{"name": "Café & Co <beta>"}, "https://example.com/x")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Non-ASCII and HTML-sensitive characters land verbatim, indented with
	// two spaces.
	assert.Contains(t, string(raw), `  "name": "Café & Co <beta>"`)
	assert.NotContains(t, string(raw), `\u`)
}

func TestSaveCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w := New(dir)

	path, err := w.Save(map[string]any{"a": 1}, "https://example.com/x")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSaveFailsOnUnwritableDirectory(t *testing.T) {
	// A regular file where the output directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	w := New(filepath.Join(blocker, "out"))
	path, err := w.Save(map[string]any{"a": 1}, "https://example.com/x")
	assert.Error(t, err)
	assert.Empty(t, path)
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "https URL",
			url:  "https://example.com/products/item-42?ref=home",
			want: "example_com_products_item_42_ref_home",
		},
		{
			name: "http URL",
			url:  "http://x.io/a",
			want: "x_io_a",
		},
		{
			name: "already sanitized",
			url:  "example_com_products_item_42",
			want: "example_com_products_item_42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeURL(tt.url))
		})
	}
}

func TestSanitizeURLIsIdempotent(t *testing.T) {
	urls := []string{
		"https://example.com/products/item-42?ref=home",
		"https://example.com/" + strings.Repeat("lang/pad/", 40),
		"plain",
	}
	for _, u := range urls {
		once := SanitizeURL(u)
		assert.Equal(t, once, SanitizeURL(once))
	}
}

func TestSanitizeURLIsBounded(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 500)
	stem := SanitizeURL(long)
	assert.Equal(t, 100, utf8.RuneCountInString(stem))
}

func TestFilenameCharset(t *testing.T) {
	name := Filename("https://example.com/products/item-42?ref=home&sort=asc")
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_]+\.json$`), name)
}

func TestFilenameIsDeterministic(t *testing.T) {
	const url = "https://example.com/some/page"
	assert.Equal(t, Filename(url), Filename(url))
}
