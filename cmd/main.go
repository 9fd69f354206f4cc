package main

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"

	"nextdata-app/internal/browser"
	"nextdata-app/internal/config"
	"nextdata-app/internal/extractor"
	"nextdata-app/internal/writer"
)

func main() {
	// Parse config
	cfg, err := config.Parse()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	opts := browser.Options{
		Headless:       cfg.Headless,
		Debug:          cfg.Debug,
		UserAgent:      browser.DefaultUserAgent,
		AcceptLanguage: browser.DefaultAcceptLanguage,
		BlockedDomains: browser.DefaultBlockedDomains,
		PageLoadLimit:  cfg.PageLoadLimit,
		ElementTimeout: cfg.ElementTimeout,
		GlobalTimeout:  cfg.GlobalTimeout,
	}

	open := func() (extractor.Session, error) {
		log.Info("launching browser", "headless", cfg.Headless)
		sess, err := browser.Open(opts)
		if err != nil {
			return nil, err
		}
		return sess, nil
	}

	x := extractor.New(cfg.HomepageURL, open, writer.New(cfg.OutputDir))

	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	sp.Suffix = " extracting " + cfg.PageURL
	sp.Start()
	ok := x.ExtractAndSave(cfg.PageURL)
	sp.Stop()

	if !ok {
		log.Error("extraction failed", "url", cfg.PageURL)
		os.Exit(1)
	}

	log.Info("extraction complete", "url", cfg.PageURL)
}
