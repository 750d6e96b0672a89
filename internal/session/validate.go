package session

import (
	"context"
	"fmt"
	"strings"

	"go-internship-automation/internal/browser"
)

// Validate navigates to probeURL and reports whether the page still looks
// authenticated: no login marker in the DOM and no bounce to a login path.
func Validate(ctx context.Context, page browser.Page, probeURL, loginMarker string) (bool, error) {
	if err := page.Goto(ctx, probeURL); err != nil {
		return false, fmt.Errorf("probe session: %w", err)
	}

	if strings.Contains(strings.ToLower(page.URL()), "/login") {
		return false, nil
	}

	if loginMarker == "" {
		return true, nil
	}
	el, err := page.Query(ctx, loginMarker)
	if err != nil {
		return false, fmt.Errorf("probe session: %w", err)
	}
	return el == nil, nil
}
