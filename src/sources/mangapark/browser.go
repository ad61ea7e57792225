package mangapark

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/diogovalentte/mangapark-adapter/src/errordefs"
)

// BrowserEvaluator evaluates programs in a blank tab of a headless Chromium.
// The browser is launched on first use. Close it when done.
type BrowserEvaluator struct {
	timeout time.Duration
	// controlURL of an already running browser, launches a new one when empty
	controlURL string

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserEvaluator creates a BrowserEvaluator.
// If controlURL is empty, a headless browser is downloaded (if needed) and launched.
func NewBrowserEvaluator(controlURL string, timeout time.Duration) *BrowserEvaluator {
	return &BrowserEvaluator{
		timeout:    timeout,
		controlURL: controlURL,
	}
}

func (e *BrowserEvaluator) getBrowser() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		return e.browser, nil
	}

	controlURL := e.controlURL
	if controlURL == "" {
		var err error
		controlURL, err = launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("error while launching browser: %s", err)
		}
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("error while connecting to browser: %s", err)
	}
	e.browser = browser

	return browser, nil
}

func (e *BrowserEvaluator) Evaluate(program string) (string, error) {
	browser, err := e.getBrowser()
	if err != nil {
		return "", fmt.Errorf("%w: %s", errordefs.ErrScriptEvaluation, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", fmt.Errorf("%w: error while opening tab: %s", errordefs.ErrScriptEvaluation, err)
	}
	defer page.Close()

	if e.timeout > 0 {
		page = page.Timeout(e.timeout)
	}
	// indirect eval runs the program in the global scope and returns its last expression
	obj, err := page.Eval(`program => (0, eval)(program)`, program)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errordefs.ErrScriptEvaluation, err)
	}
	if obj.Value.Nil() {
		return "", fmt.Errorf("%w: program has no result", errordefs.ErrScriptEvaluation)
	}

	return obj.Value.Str(), nil
}

// Close closes the browser if it was started
func (e *BrowserEvaluator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil

	return err
}
