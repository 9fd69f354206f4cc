package extractor

import "github.com/charmbracelet/log"

// ExtractAndSave extracts the page's pageProps and persists them. It returns
// true only when both extraction and persistence succeed; all failures are
// logged for the operator rather than propagated.
func (x *Extractor) ExtractAndSave(pageURL string) bool {
	log.Info("extracting page props", "url", pageURL)

	props, err := x.Extract(pageURL)
	if err != nil {
		log.Error("extraction failed", "url", pageURL, "err", err)
		log.Info("try running with -headless=false to watch the browser, or check the errors above")
		return false
	}
	log.Info("page props extracted", "url", pageURL)

	path, err := x.saver.Save(props, pageURL)
	if err != nil {
		log.Error("failed to save extracted data", "url", pageURL, "err", err)
		return false
	}
	log.Info("extracted data saved", "path", path)

	return true
}

// Run is the one-shot call shape: build an extractor and perform a single
// extract-and-save. Thin adapter over the canonical API.
func Run(homepageURL, pageURL string, open Opener, saver Saver) bool {
	return New(homepageURL, open, saver).ExtractAndSave(pageURL)
}
