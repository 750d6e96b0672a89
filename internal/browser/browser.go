// Package browser owns the headless browser. Portal flows talk to it through
// the Page and Element interfaces so they can run against fakes in tests.
package browser

import (
	"context"
	"time"
)

// Element is a handle to a DOM node on a Page.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attr(ctx context.Context, name string) (string, error)
	// Query returns nil, nil when nothing matches.
	Query(ctx context.Context, selector string) (Element, error)
	Click(ctx context.Context) error
	// Visible checks computed style: display, visibility and opacity.
	Visible(ctx context.Context) (bool, error)
	SetInputFiles(ctx context.Context, paths ...string) error
	HTML(ctx context.Context) (string, error)
}

// Page is a single tab. Calls on one Page must not run concurrently.
type Page interface {
	Goto(ctx context.Context, url string) error
	URL() string
	// Query returns nil, nil when nothing matches.
	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	// Type focuses the first match and types text one character at a time.
	Type(ctx context.Context, selector, text string, delay time.Duration) error
	Press(ctx context.Context, key string) error
	SelectOption(ctx context.Context, selector, value string) error
	MouseMove(ctx context.Context, x, y float64, steps int) error
	// WaitReady blocks until document.readyState is "complete".
	WaitReady(ctx context.Context, timeout time.Duration) error
	WaitURL(ctx context.Context, match func(url string) bool, timeout time.Duration) error
	Evaluate(ctx context.Context, script string, arg any) (any, error)
	Cookies(ctx context.Context) ([]Cookie, error)
	AddCookies(ctx context.Context, cookies []Cookie) error
	Screenshot(path string) error
}

// Session is one browser process with one page. Close is idempotent.
type Session interface {
	Page() Page
	Close() error
}

type LaunchOptions struct {
	Headless bool
	Cookies  []Cookie
}

// Launcher starts a fresh browser per request; there is no pooling.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Session, error)
}

// remaining clamps def to the time left on ctx.
func remaining(ctx context.Context, def time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return def
	}
	left := time.Until(deadline)
	if left <= 0 {
		return time.Millisecond
	}
	if def <= 0 || left < def {
		return left
	}
	return def
}
