package portal

import (
	"context"
	"strings"
	"time"

	"go-internship-automation/internal/browser"
)

// Sentinel marks a field no selector in its cascade could read.
const Sentinel = "N/A"

const pollInterval = 250 * time.Millisecond

// querier is satisfied by both browser.Page and browser.Element.
type querier interface {
	Query(ctx context.Context, selector string) (browser.Element, error)
}

// first returns the first element matched by the cascade, or nil. Lookup
// errors on one selector fall through to the next.
func first(ctx context.Context, q querier, selectors []string) (browser.Element, string) {
	for _, sel := range selectors {
		if ctx.Err() != nil {
			return nil, ""
		}
		el, err := q.Query(ctx, sel)
		if err == nil && el != nil {
			return el, sel
		}
	}
	return nil, ""
}

// waitFirst polls the cascade until something matches or timeout elapses.
func waitFirst(ctx context.Context, page browser.Page, selectors []string, timeout time.Duration) (browser.Element, string) {
	deadline := time.Now().Add(timeout)
	for {
		if el, sel := first(ctx, page, selectors); el != nil {
			return el, sel
		}
		if time.Now().After(deadline) {
			return nil, ""
		}
		if err := browser.Sleep(ctx, pollInterval); err != nil {
			return nil, ""
		}
	}
}

// allFirst returns the matches of the first selector that matches anything.
func allFirst(ctx context.Context, page browser.Page, selectors []string) ([]browser.Element, string) {
	for _, sel := range selectors {
		if ctx.Err() != nil {
			return nil, ""
		}
		els, err := page.QueryAll(ctx, sel)
		if err == nil && len(els) > 0 {
			return els, sel
		}
	}
	return nil, ""
}

// textOf reads trimmed text through the cascade, or Sentinel.
func textOf(ctx context.Context, q querier, selectors []string) string {
	el, _ := first(ctx, q, selectors)
	if el == nil {
		return Sentinel
	}
	text, err := el.Text(ctx)
	if err != nil {
		return Sentinel
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Sentinel
	}
	return text
}

func orDefault(v, def string) string {
	if v == Sentinel {
		return def
	}
	return v
}
