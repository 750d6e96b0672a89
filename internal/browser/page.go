package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultActionTimeout = 30 * time.Second

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

type playwrightPage struct {
	page playwright.Page
}

// WrapPage adapts a raw playwright page.
func WrapPage(page playwright.Page) Page {
	return &playwrightPage{page: page}
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   ms(remaining(ctx, 60*time.Second)),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Query(ctx context.Context, selector string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := p.page.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return &playwrightElement{handle: h}, nil
}

func (p *playwrightPage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &playwrightElement{handle: h})
	}
	return out, nil
}

func (p *playwrightPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: ms(remaining(ctx, timeout)),
	})
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return &playwrightElement{handle: h}, nil
}

func (p *playwrightPage) Type(ctx context.Context, selector, text string, delay time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay:   ms(delay),
		Timeout: ms(remaining(ctx, defaultActionTimeout)),
	})
}

func (p *playwrightPage) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Keyboard().Press(key)
}

func (p *playwrightPage) SelectOption(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Locator(selector).First().SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{
		Timeout: ms(remaining(ctx, 5*time.Second)),
	})
	return err
}

func (p *playwrightPage) MouseMove(ctx context.Context, x, y float64, steps int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Mouse().Move(x, y, playwright.MouseMoveOptions{
		Steps: playwright.Int(steps),
	})
}

func (p *playwrightPage) WaitReady(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.WaitForFunction("() => document.readyState === 'complete'", nil, playwright.PageWaitForFunctionOptions{
		Timeout: ms(remaining(ctx, timeout)),
	})
	return err
}

func (p *playwrightPage) WaitURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.WaitForURL(match, playwright.PageWaitForURLOptions{
		Timeout: ms(remaining(ctx, timeout)),
	})
}

func (p *playwrightPage) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if arg == nil {
		return p.page.Evaluate(script)
	}
	return p.page.Evaluate(script, arg)
}

func (p *playwrightPage) Cookies(ctx context.Context) ([]Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pwCookies, err := p.page.Context().Cookies()
	if err != nil {
		return nil, err
	}
	out := make([]Cookie, 0, len(pwCookies))
	for _, c := range pwCookies {
		out = append(out, FromPlaywright(c))
	}
	return out, nil
}

func (p *playwrightPage) AddCookies(ctx context.Context, cookies []Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Context().AddCookies(toOptionalCookies(cookies))
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.handle.InnerText()
}

func (e *playwrightElement) Attr(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.handle.GetAttribute(name)
}

func (e *playwrightElement) Query(ctx context.Context, selector string) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	return &playwrightElement{handle: h}, nil
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.Click(playwright.ElementHandleClickOptions{
		Delay:   playwright.Float(100),
		Timeout: ms(remaining(ctx, 10*time.Second)),
	})
}

const visibleScript = `el => {
	const style = window.getComputedStyle(el);
	return !!style && style.display !== 'none' && style.visibility !== 'hidden' && style.opacity !== '0';
}`

func (e *playwrightElement) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v, err := e.handle.Evaluate(visibleScript)
	if err != nil {
		return false, err
	}
	visible, _ := v.(bool)
	return visible, nil
}

func (e *playwrightElement) SetInputFiles(ctx context.Context, paths ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.handle.SetInputFiles(paths)
}

func (e *playwrightElement) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return "", err
	}
	html, _ := v.(string)
	return html, nil
}
