package browser

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/playwright-community/playwright-go"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

const (
	viewportWidth  = 1280
	viewportHeight = 720
)

// PlaywrightManager owns one playwright driver and one Chromium process.
type PlaywrightManager struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	userAgents []string
}

func NewPlaywright(ctx context.Context, headless bool, userAgents []string) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &PlaywrightManager{pw: pw, browser: b, userAgents: userAgents}, nil
}

// NewContext opens a context with a desktop fingerprint and the given cookies.
func (pm *PlaywrightManager) NewContext(cookies []Cookie) (playwright.BrowserContext, error) {
	ua := pm.userAgents[rand.Intn(len(pm.userAgents))]
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(ua),
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(toOptionalCookies(cookies)); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("add cookies: %w", err)
		}
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}

// PlaywrightLauncher implements Launcher with a fresh Chromium per call.
type PlaywrightLauncher struct {
	UserAgents []string
}

func (l *PlaywrightLauncher) Launch(ctx context.Context, opts LaunchOptions) (Session, error) {
	pm, err := NewPlaywright(ctx, opts.Headless, l.UserAgents)
	if err != nil {
		return nil, err
	}

	bctx, err := pm.NewContext(opts.Cookies)
	if err != nil {
		_ = pm.Close()
		return nil, err
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = pm.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return &playwrightSession{
		manager: pm,
		context: bctx,
		page:    &playwrightPage{page: page},
	}, nil
}

type playwrightSession struct {
	manager *PlaywrightManager
	context playwright.BrowserContext
	page    *playwrightPage

	once sync.Once
	err  error
}

func (s *playwrightSession) Page() Page {
	return s.page
}

func (s *playwrightSession) Close() error {
	s.once.Do(func() {
		var errs []error
		//always close tab before context and process
		if !s.page.page.IsClosed() {
			errs = append(errs, s.page.page.Close())
		}
		errs = append(errs, s.context.Close())
		errs = append(errs, s.manager.Close())
		s.err = errors.Join(errs...)
	})
	return s.err
}
