package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

type Config struct {
	HomepageURL    string
	PageURL        string
	Headless       bool
	Debug          bool
	OutputDir      string
	PageLoadLimit  time.Duration // Ceiling for navigation and readyState waits
	ElementTimeout time.Duration // Ceiling for the data element lookup
	GlobalTimeout  time.Duration // Overall browser session timeout
}

// siteFile is the on-disk shape of the site details file.
type siteFile struct {
	HomepageURL string `json:"homepage_url"`
	PageURL     string `json:"page_url"`
}

func Parse() (*Config, error) {
	cfg := &Config{}

	// Define flags
	sitePath := flag.String("site", "website_details.json", "Path to the site details JSON file")
	flag.StringVar(&cfg.HomepageURL, "homepage", "", "Homepage URL for cookie warm-up (overrides site file)")
	flag.StringVar(&cfg.PageURL, "url", "", "Page URL to extract data from (overrides site file)")
	flag.BoolVar(&cfg.Headless, "headless", true, "Run in headless mode")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug mode")
	flag.StringVar(&cfg.OutputDir, "output", "data", "Directory for extracted JSON files")

	// Timeout flags (in seconds)
	pageLoad := flag.Int("page-timeout", 30, "Page load timeout in seconds")
	elementWait := flag.Int("element-timeout", 10, "Data element wait timeout in seconds")
	globalTimeout := flag.Int("timeout", 120, "Global session timeout in seconds")

	flag.Parse()

	// Convert timeouts to time.Duration
	cfg.PageLoadLimit = time.Duration(*pageLoad) * time.Second
	cfg.ElementTimeout = time.Duration(*elementWait) * time.Second
	cfg.GlobalTimeout = time.Duration(*globalTimeout) * time.Second

	// Flags win over the site file; the file is only consulted for what
	// the flags left empty.
	if cfg.HomepageURL == "" || cfg.PageURL == "" {
		site, err := ReadSiteFile(*sitePath)
		if err != nil {
			return nil, err
		}
		if cfg.HomepageURL == "" {
			cfg.HomepageURL = site.HomepageURL
		}
		if cfg.PageURL == "" {
			cfg.PageURL = site.PageURL
		}
	}

	if cfg.HomepageURL == "" {
		return nil, fmt.Errorf("homepage URL is required (flag -homepage or homepage_url in site file)")
	}
	if cfg.PageURL == "" {
		return nil, fmt.Errorf("page URL is required (flag -url or page_url in site file)")
	}

	return cfg, nil
}

// Site holds the URLs read from the site details file.
type Site struct {
	HomepageURL string
	PageURL     string
}

// ReadSiteFile loads homepage and page URLs from a small JSON file.
func ReadSiteFile(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file %s: %w", path, err)
	}

	var site siteFile
	if err := json.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site file %s: %w", path, err)
	}

	return &Site{
		HomepageURL: site.HomepageURL,
		PageURL:     site.PageURL,
	}, nil
}
