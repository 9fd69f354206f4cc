package browser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

// ErrDriverInit means no launch strategy produced a working browser.
var ErrDriverInit = errors.New("failed to start a browser instance")

// DefaultUserAgent is a realistic desktop Chrome user agent. Headless
// defaults advertise automation and get pages served differently.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultAcceptLanguage is the language preference sent with every request.
const DefaultAcceptLanguage = "nl-NL,nl;q=0.9,en-US;q=0.8,en;q=0.7"

// DefaultBlockedDomains lists analytics and tracking hosts that are blocked
// at the browser level so page loads don't hang on third-party trackers.
var DefaultBlockedDomains = []string{
	"plausible.io",
	"google-analytics.com",
	"analytics.google.com",
	"googletagmanager.com",
	"hotjar.com",
	"mixpanel.com",
	"segment.io",
	"segment.com",
	"matomo.cloud",
	"matomo.org",
	"clarity.ms",
	"facebook.net",
	"facebook.com",
	"linkedin.com",
	"twitter.com",
	"amplitude.com",
	"heap.io",
	"fullstory.com",
	"logrocket.com",
	"mouseflow.com",
	"doubleclick.net",
	"quantserve.com",
	"scorecardresearch.com",
	"chartbeat.com",
	"kissmetrics.com",
	"clicky.com",
	"newrelic.com",
	"adobe.com",
	"crazyegg.com",
}

// Options control how the Chrome session is launched and how long its
// individual waits may take.
type Options struct {
	Headless       bool
	Debug          bool
	UserAgent      string
	AcceptLanguage string
	BlockedDomains []string
	PageLoadLimit  time.Duration
	ElementTimeout time.Duration
	GlobalTimeout  time.Duration
}

// launchStrategy is one way of resolving a Chrome binary. Strategies are
// tried in order; the first one that yields a running browser wins.
type launchStrategy struct {
	name     string
	execPath string // empty means chromedp's own lookup
}

func launchStrategies() []launchStrategy {
	strategies := []launchStrategy{{name: "default browser lookup"}}

	var candidates []string
	switch runtime.GOOS {
	case "windows":
		candidates = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	case "darwin":
		candidates = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	default:
		candidates = []string{
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
		}
	}
	for _, path := range candidates {
		strategies = append(strategies, launchStrategy{name: "explicit path " + path, execPath: path})
	}

	return strategies
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserAgent(opts.UserAgent),

		// Basic settings
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),

		// Keep automation fingerprints out of the rendered page
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", opts.AcceptLanguage),

		// Disable surfaces that interfere with unattended runs
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),

		// Stability flags
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-ipc-flooding-protection", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)

	if pattern := hostBlockingPattern(opts.BlockedDomains); pattern != "" {
		allocOpts = append(allocOpts, chromedp.Flag("host-blocking-patterns", pattern))
	}

	return allocOpts
}

// hostBlockingPattern joins blocked domains into the comma-separated form
// Chrome expects for its host blocking argument.
func hostBlockingPattern(domains []string) string {
	return strings.Join(domains, ",")
}

// Open launches a Chrome session, trying each launch strategy in order.
// All failure reasons are collected into the final error when nothing works.
func Open(opts Options) (*Session, error) {
	var failures []error

	for _, strategy := range launchStrategies() {
		sess, err := tryLaunch(strategy, opts)
		if err != nil {
			log.Debug("launch strategy failed", "strategy", strategy.name, "err", err)
			failures = append(failures, fmt.Errorf("%s: %w", strategy.name, err))
			continue
		}
		log.Debug("browser started", "strategy", strategy.name)
		return sess, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrDriverInit, errors.Join(failures...))
}

func tryLaunch(strategy launchStrategy, opts Options) (*Session, error) {
	allocOpts := allocatorOptions(opts)
	if strategy.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(strategy.execPath))
	}

	// Create allocator context
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	// Create browser context, with protocol logging in debug mode
	var browserOpts []chromedp.ContextOption
	if opts.Debug {
		browserOpts = append(browserOpts, chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Debug(fmt.Sprintf("CHROME: "+format, args...))
		}))
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, browserOpts...)

	// Bound the whole session
	timeoutCtx, timeoutCancel := context.WithTimeout(browserCtx, opts.GlobalTimeout)

	cancelAll := func() {
		timeoutCancel()
		browserCancel()
		allocCancel()
	}

	// Run an empty action to force the browser process to start
	if err := chromedp.Run(timeoutCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return nil
	})); err != nil {
		cancelAll()
		return nil, err
	}

	return &Session{
		ctx:            timeoutCtx,
		cancel:         cancelAll,
		pageLoadLimit:  opts.PageLoadLimit,
		elementTimeout: opts.ElementTimeout,
	}, nil
}
