package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Playwright drives a headless Chromium through the playwright protocol.
type Playwright struct {
	pw        *playwright.Playwright
	browser   playwright.Browser
	userAgent string
	timeout   time.Duration
}

// Options configures the launched browser.
type Options struct {
	Headless    bool
	UserAgent   string
	NavTimeout  time.Duration
	InstallDeps bool
}

// Launch starts the playwright driver and a Chromium instance. When
// InstallDeps is set the browser bundle is downloaded first, which the
// first run on a fresh machine needs.
func Launch(opts Options) (*Playwright, error) {
	if opts.InstallDeps {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("installing playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}
	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	timeout := opts.NavTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Playwright{
		pw:        pw,
		browser:   chromium,
		userAgent: opts.UserAgent,
		timeout:   timeout,
	}, nil
}

func (p *Playwright) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pageOpts := playwright.BrowserNewPageOptions{}
	if p.userAgent != "" {
		pageOpts.UserAgent = playwright.String(p.userAgent)
	}
	page, err := p.browser.NewPage(pageOpts)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return &playwrightPage{page: page, timeout: p.timeout}, nil
}

func (p *Playwright) Close() error {
	if err := p.browser.Close(); err != nil {
		p.pw.Stop()
		return fmt.Errorf("closing chromium: %w", err)
	}
	return p.pw.Stop()
}

type playwrightPage struct {
	page    playwright.Page
	timeout time.Duration
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(p.timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Evaluate(script string) (string, error) {
	result, err := p.page.Evaluate(script)
	if err != nil {
		return "", fmt.Errorf("evaluating script: %w", err)
	}
	if result == nil {
		return "", nil
	}
	if s, ok := result.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding script result: %w", err)
	}
	return string(encoded), nil
}

func (p *playwrightPage) Text(selector string) (string, error) {
	locator := p.page.Locator(selector).First()
	count, err := locator.Count()
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", selector, err)
	}
	if count == 0 {
		return "", nil
	}
	text, err := locator.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(float64(p.timeout.Milliseconds())),
	})
	if err != nil {
		return "", fmt.Errorf("reading text of %s: %w", selector, err)
	}
	return text, nil
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
