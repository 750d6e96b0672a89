package portal

import (
	"context"
	"time"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/logging"
)

const (
	maxOverlayAttempts = 5
	overlayDelay       = 1500 * time.Millisecond
)

const hideOverlayScript = `({ overlay, close }) => {
	document.querySelectorAll(overlay).forEach(el => { el.style.display = 'none'; });
	for (const sel of close) {
		const btn = document.querySelector(sel);
		if (btn) { btn.click(); break; }
	}
}`

// OverlayDismisser clears blocking modals before interactions. It is best
// effort and never fails the caller.
type OverlayDismisser struct {
	sel   OverlaySelectors
	log   *logging.Logger
	delay time.Duration
}

func NewOverlayDismisser(sel OverlaySelectors, delay time.Duration, log *logging.Logger) *OverlayDismisser {
	return &OverlayDismisser{sel: sel, log: log, delay: delay}
}

// Dismiss returns how many overlays it tried to close.
func (d *OverlayDismisser) Dismiss(ctx context.Context, page browser.Page) int {
	attempts := 0
	for attempts < maxOverlayAttempts {
		sel := d.visible(ctx, page)
		if sel == "" {
			return attempts
		}
		attempts++
		d.log.Debug("🧹 Overlay found, attempting to close", "selector", sel, "attempt", attempts)

		arg := map[string]any{"overlay": sel, "close": d.sel.Close}
		if _, err := page.Evaluate(ctx, hideOverlayScript, arg); err != nil {
			d.log.Debug("⚠️ Overlay script failed", "error", err)
		}
		if err := browser.Sleep(ctx, d.delay); err != nil {
			return attempts
		}
	}
	d.log.Warn("⚠️ Max overlay attempts reached, proceeding anyway")
	return attempts
}

// visible returns the first overlay selector with a visible match. Overlays
// already hidden by an earlier pass do not count.
func (d *OverlayDismisser) visible(ctx context.Context, page browser.Page) string {
	for _, sel := range d.sel.Overlays {
		els, err := page.QueryAll(ctx, sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			if ok, err := el.Visible(ctx); err == nil && ok {
				return sel
			}
		}
	}
	return ""
}
