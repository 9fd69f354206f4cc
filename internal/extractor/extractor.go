// Package extractor pulls the pageProps object out of the __NEXT_DATA__
// script element that Next.js injects into server-rendered pages.
package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DataElementID is the id of the script element Next.js injects its
// serialized props into.
const DataElementID = "__NEXT_DATA__"

var (
	ErrPageLoadTimeout  = errors.New("page did not finish loading in time")
	ErrElementNotFound  = errors.New("data element not found")
	ErrEmptyPayload     = errors.New("data element has no content")
	ErrMalformedPayload = errors.New("data element content is not valid JSON")
	ErrSchemaMismatch   = errors.New("data payload missing props.pageProps")
)

// Session is the rendering backend the extractor drives. *browser.Session is
// the real implementation; tests substitute their own.
type Session interface {
	Navigate(url string) error
	ScrollBy(pixels int) error
	WaitDocumentReady() error
	WaitElement(id string) error
	ElementText(id string) (string, error)
	Close()
}

// Opener starts a fresh browser session. Each extraction owns exactly one.
type Opener func() (Session, error)

// Saver persists an extracted payload and returns the file path.
type Saver interface {
	Save(data any, pageURL string) (string, error)
}

// PauseFunc sleeps for some interval between lo and hi. The default adds
// randomized jitter to look less like a bot; tests swap in a no-op.
type PauseFunc func(lo, hi time.Duration)

func humanPause(lo, hi time.Duration) {
	if hi <= lo {
		time.Sleep(lo)
		return
	}
	time.Sleep(lo + time.Duration(rand.Int63n(int64(hi-lo))))
}

// defaultPause is the jitter every new extractor starts with.
var defaultPause PauseFunc = humanPause

type Extractor struct {
	homepageURL string
	open        Opener
	saver       Saver
	pause       PauseFunc
}

func New(homepageURL string, open Opener, saver Saver) *Extractor {
	return &Extractor{
		homepageURL: homepageURL,
		open:        open,
		saver:       saver,
		pause:       defaultPause,
	}
}

// SetPause overrides the jitter policy, mainly so tests run instantly.
func (x *Extractor) SetPause(pause PauseFunc) {
	x.pause = pause
}

// Extract navigates to the page and returns its pageProps object. The
// session is closed on every exit path.
func (x *Extractor) Extract(pageURL string) (map[string]any, error) {
	sess, err := x.open()
	if err != nil {
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}
	defer sess.Close()

	return x.pageProps(sess, pageURL)
}

func (x *Extractor) pageProps(sess Session, pageURL string) (map[string]any, error) {
	// Visit the homepage first so the site's cookies and session state are
	// in place before the target page is requested.
	if err := sess.Navigate(x.homepageURL); err != nil {
		return nil, fmt.Errorf("homepage navigation failed: %w", err)
	}
	x.pause(2*time.Second, 4*time.Second)

	if err := sess.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("page navigation failed: %w", err)
	}
	x.pause(3*time.Second, 5*time.Second)

	// Nudge the viewport to trigger lazy-loaded content.
	if err := sess.ScrollBy(300); err != nil {
		return nil, fmt.Errorf("scroll failed: %w", err)
	}
	x.pause(1*time.Second, 2*time.Second)

	if err := sess.WaitDocumentReady(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoadTimeout, err)
	}

	// Give asynchronous scripts a moment to finish.
	x.pause(2*time.Second, 3*time.Second)

	if err := sess.WaitElement(DataElementID); err != nil {
		return nil, fmt.Errorf("%w: #%s: %v", ErrElementNotFound, DataElementID, err)
	}

	text, err := sess.ElementText(DataElementID)
	if err != nil {
		return nil, fmt.Errorf("reading #%s failed: %w", DataElementID, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: #%s", ErrEmptyPayload, DataElementID)
	}

	log.Debug("data element found", "id", DataElementID, "length", len(text))
	if len(text) > 100 {
		log.Debug("payload sample", "head", text[:100])
	}

	var nextData any
	if err := json.Unmarshal([]byte(text), &nextData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	root, ok := nextData.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: payload is not an object", ErrSchemaMismatch)
	}
	props, ok := root["props"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: no props object", ErrSchemaMismatch)
	}
	pageProps, ok := props["pageProps"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: no pageProps object under props", ErrSchemaMismatch)
	}

	return pageProps, nil
}
