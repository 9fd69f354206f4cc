package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

// Session is one live Chrome instance. It is not safe for concurrent use;
// the extraction flow is strictly sequential.
type Session struct {
	ctx            context.Context
	cancel         context.CancelFunc
	pageLoadLimit  time.Duration
	elementTimeout time.Duration
	closed         bool
}

// runWithTimeout runs chromedp actions under a per-action deadline derived
// from the session context.
func (s *Session) runWithTimeout(limit time.Duration, actions ...chromedp.Action) error {
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("session context canceled: %w", s.ctx.Err())
	default:
		timeoutCtx, cancel := context.WithTimeout(s.ctx, limit)
		defer cancel()

		err := chromedp.Run(timeoutCtx, actions...)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("action timed out after %v", limit)
			}
			return err
		}
		return nil
	}
}

// Navigate loads the given URL, bounded by the page load limit.
func (s *Session) Navigate(url string) error {
	return s.runWithTimeout(s.pageLoadLimit, chromedp.Navigate(url))
}

// ScrollBy scrolls the viewport down to trigger lazy-loaded content.
func (s *Session) ScrollBy(pixels int) error {
	return s.runWithTimeout(s.elementTimeout,
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d);", pixels), nil))
}

// WaitDocumentReady blocks until document.readyState reports complete.
func (s *Session) WaitDocumentReady() error {
	return s.runWithTimeout(s.pageLoadLimit,
		chromedp.Poll(`document.readyState === "complete"`, nil))
}

// WaitElement blocks until the element with the given id is present in the
// DOM. Presence, not visibility: script elements never become visible.
func (s *Session) WaitElement(id string) error {
	return s.runWithTimeout(s.elementTimeout,
		chromedp.WaitReady("#"+id, chromedp.ByQuery))
}

// ElementText reads the element's text content, falling back to its text
// attribute when textContent is absent.
func (s *Session) ElementText(id string) (string, error) {
	js := fmt.Sprintf(`(() => {
		const el = document.getElementById(%q);
		if (!el) return "";
		return el.textContent || el.getAttribute("text") || "";
	})()`, id)

	var text string
	if err := s.runWithTimeout(s.elementTimeout, chromedp.Evaluate(js, &text)); err != nil {
		return "", err
	}
	return text, nil
}

// Close terminates the browser. Safe to call multiple times.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	log.Debug("closing browser session")
	s.cancel()
}
