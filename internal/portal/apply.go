package portal

import (
	"context"
	"fmt"
	"strings"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
)

const (
	timedOutMessage = "request timed out"
	goneMessage     = "listing no longer on results page"
	snippetLen      = 300
)

// Candidate is a ranked card queued for the apply loop.
type Candidate struct {
	models.ScoredListing
	ApplyButton browser.Element
	Container   browser.Element
}

// Candidates pairs ranked listings with the cards they came from.
func Candidates(cards []Card, ranked []models.ScoredListing) []Candidate {
	out := make([]Candidate, 0, len(ranked))
	for _, r := range ranked {
		c := Candidate{ScoredListing: r}
		if r.Index >= 0 && r.Index < len(cards) {
			c.ApplyButton = cards[r.Index].ApplyButton
			c.Container = cards[r.Index].Container
		}
		out = append(out, c)
	}
	return out
}

// Relocator re-reads the results page after the apply loop navigated away.
type Relocator func(ctx context.Context, page browser.Page) ([]Card, error)

// Orchestrator runs the apply step for the top ranked listings.
type Orchestrator struct {
	sel      ApplySelectors
	overlays *OverlayDismisser
	timing   Timing
	log      *logging.Logger
	relocate Relocator
}

func NewOrchestrator(sel ApplySelectors, overlays *OverlayDismisser, timing Timing, log *logging.Logger, relocate Relocator) *Orchestrator {
	return &Orchestrator{
		sel:      sel,
		overlays: overlays,
		timing:   timing,
		log:      log,
		relocate: relocate,
	}
}

// Run processes at most filter.TopN candidates in order and returns one
// outcome per processed candidate. A failure on one listing never stops the
// batch; once ctx is done the rest are marked as timed out.
func (o *Orchestrator) Run(ctx context.Context, page browser.Page, candidates []Candidate, resumePath string) []models.ApplicationOutcome {
	if len(candidates) > filter.TopN {
		candidates = candidates[:filter.TopN]
	}
	resultsURL := page.URL()

	outcomes := make([]models.ApplicationOutcome, 0, len(candidates))
	for i, c := range candidates {
		if ctx.Err() != nil {
			for _, rest := range candidates[i:] {
				outcomes = append(outcomes, models.ApplicationOutcome{
					Index:   rest.Index,
					Status:  models.StatusError,
					Message: timedOutMessage,
				})
			}
			o.log.Warn("⏰ Apply loop abandoned", "remaining", len(candidates)-i)
			break
		}

		if i > 0 && page.URL() != resultsURL {
			var found bool
			if c, found = o.restore(ctx, page, resultsURL, c); !found {
				o.log.Warn("🚫 Listing disappeared from results page", "index", c.Index, "url", c.DetailURL)
				outcomes = append(outcomes, models.ApplicationOutcome{
					Index:   c.Index,
					Status:  models.StatusError,
					Message: goneMessage,
				})
				continue
			}
		}

		o.log.Info("🎯 Processing listing", "index", c.Index, "title", c.Title, "score", c.Score)
		outcome := o.applyOne(ctx, page, c, resumePath)
		o.log.Info("📌 Outcome", "index", c.Index, "status", outcome.String())
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// restore goes back to the results page and refreshes the candidate's apply
// control, since handles from the previous document are detached. Cards are
// matched by detail URL only; found is false when the listing is gone.
func (o *Orchestrator) restore(ctx context.Context, page browser.Page, resultsURL string, c Candidate) (_ Candidate, found bool) {
	if err := page.Goto(ctx, resultsURL); err != nil {
		o.log.Warn("⚠️ Failed to return to results page", "error", err)
		return c, true
	}
	if o.relocate == nil {
		return c, true
	}
	cards, err := o.relocate(ctx, page)
	if err != nil {
		o.log.Warn("⚠️ Failed to re-read results page", "error", err)
		return c, true
	}
	for _, card := range cards {
		if card.DetailURL == c.DetailURL {
			c.ApplyButton = card.ApplyButton
			c.Container = card.Container
			return c, true
		}
	}
	c.ApplyButton = nil
	c.Container = nil
	return c, false
}

func (o *Orchestrator) applyOne(ctx context.Context, page browser.Page, c Candidate, resumePath string) (outcome models.ApplicationOutcome) {
	outcome = models.ApplicationOutcome{Index: c.Index}
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("💥 Unexpected failure while applying", "index", c.Index, "panic", r)
			outcome.Status = models.StatusError
			outcome.Message = fmt.Sprint(r)
		}
	}()

	fail := func(err error) models.ApplicationOutcome {
		outcome.Status = models.StatusError
		outcome.Message = err.Error()
		if ctx.Err() != nil {
			outcome.Message = timedOutMessage
		}
		return outcome
	}

	o.overlays.Dismiss(ctx, page)

	if c.ApplyButton == nil {
		o.logCard(ctx, c)
		outcome.Status = models.StatusNoButtonFound
		return outcome
	}

	visible, err := c.ApplyButton.Visible(ctx)
	if err != nil {
		return fail(err)
	}
	if !visible {
		outcome.Status = models.StatusButtonNotVisible
		return outcome
	}

	if err := c.ApplyButton.Click(ctx); err != nil {
		return fail(fmt.Errorf("click apply: %w", err))
	}
	if err := page.WaitReady(ctx, o.timing.Ready); err != nil {
		return fail(fmt.Errorf("wait for page: %w", err))
	}

	if !strings.Contains(page.URL(), o.sel.URLPattern) {
		outcome.Status = models.StatusSingleClickApplied
		return outcome
	}

	o.log.Info("📝 Redirected to application page", "url", page.URL())
	o.overlays.Dismiss(ctx, page)

	form, _ := first(ctx, page, o.sel.Form)
	if form == nil {
		outcome.Status = models.StatusRedirectedNoForm
		return outcome
	}
	outcome.Status = models.StatusInProgress

	if resumePath != "" {
		if input, _ := first(ctx, form, o.sel.FileInput); input != nil {
			if err := input.SetInputFiles(ctx, resumePath); err != nil {
				return fail(fmt.Errorf("upload resume: %w", err))
			}
			o.log.Info("📎 Resume uploaded")
		}
	}

	submit, _ := first(ctx, form, o.sel.Submit)
	if submit == nil {
		outcome.Status = models.StatusFormDetectedNotSubmitted
		return outcome
	}
	if err := submit.Click(ctx); err != nil {
		return fail(fmt.Errorf("submit application: %w", err))
	}
	if err := page.WaitReady(ctx, o.timing.Ready); err != nil {
		return fail(fmt.Errorf("wait after submit: %w", err))
	}
	outcome.Status = models.StatusApplied
	return outcome
}

// logCard dumps the start of the card markup so selector drift can be
// diagnosed from the logs.
func (o *Orchestrator) logCard(ctx context.Context, c Candidate) {
	if c.Container == nil {
		o.log.Warn("❌ No apply button found", "index", c.Index)
		return
	}
	html, err := c.Container.HTML(ctx)
	if err != nil {
		o.log.Warn("❌ No apply button found", "index", c.Index, "error", err)
		return
	}
	if r := []rune(html); len(r) > snippetLen {
		html = string(r[:snippetLen])
	}
	o.log.Warn("❌ No apply button found", "index", c.Index, "card", html)
}

// Summarize counts every matched listing under exactly one status. Listings
// the loop never reached are NotAttempted.
func Summarize(totalMatched int, outcomes []models.ApplicationOutcome) map[models.ApplyStatus]int {
	summary := make(map[models.ApplyStatus]int)
	for _, o := range outcomes {
		summary[o.Status]++
	}
	if rest := totalMatched - len(outcomes); rest > 0 {
		summary[models.StatusNotAttempted] = rest
	}
	return summary
}
