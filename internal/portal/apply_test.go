package portal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/browser/browsertest"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const applyURL = "https://internshala.com/application/apply/123"

func candidate(index int, button *browsertest.Element) Candidate {
	c := Candidate{ScoredListing: models.ScoredListing{
		Listing: models.Listing{Title: "Intern", DetailURL: "#card-" + string(rune('a'+index))},
		Index:   index,
	}}
	if button != nil {
		c.ApplyButton = button
	}
	return c
}

// redirectTo returns a button that opens the application page with the given
// form, or no form when form is nil.
func redirectTo(page *browsertest.Page, form *browsertest.Element) *browsertest.Element {
	btn := browsertest.NewElement("Apply now")
	btn.OnClick = func() {
		page.SetURL(applyURL)
		if form != nil {
			page.Set("form.apply-form", form)
		}
	}
	return btn
}

func newResultsPage() *browsertest.Page {
	page := browsertest.NewPage()
	page.SetURL(resultsURL)
	page.OnGoto = func(p *browsertest.Page, url string) {
		if url == resultsURL {
			p.Remove("form.apply-form")
		}
	}
	return page
}

func TestOrchestrator_Statuses(t *testing.T) {
	page := newResultsPage()

	fileInput := browsertest.NewElement("")
	submit := browsertest.NewElement("Submit")
	fullForm := browsertest.NewElement("").
		WithChild(`input[type="file"]`, fileInput).
		WithChild(`button[type="submit"]`, submit)

	tests := []struct {
		name    string
		button  *browsertest.Element
		status  models.ApplyStatus
		message string
	}{
		{name: "no button", button: nil, status: models.StatusNoButtonFound},
		{name: "hidden button", button: &browsertest.Element{Hidden: true}, status: models.StatusButtonNotVisible},
		{name: "single click", button: browsertest.NewElement("Apply"), status: models.StatusSingleClickApplied},
		{name: "redirect without form", button: redirectTo(page, nil), status: models.StatusRedirectedNoForm},
		{name: "form without submit", button: redirectTo(page, browsertest.NewElement("")), status: models.StatusFormDetectedNotSubmitted},
	}

	var candidates []Candidate
	for i, tt := range tests {
		candidates = append(candidates, candidate(i, tt.button))
	}

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), nopLog(), nil)
	outcomes := o.Run(context.Background(), page, candidates, "")

	require.Len(t, outcomes, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, i, outcomes[i].Index)
			assert.Equal(t, tt.status, outcomes[i].Status)
		})
	}

	t.Run("full application with resume", func(t *testing.T) {
		page := newResultsPage()
		c := candidate(0, redirectTo(page, fullForm))

		outcomes := o.Run(context.Background(), page, []Candidate{c}, "/tmp/resume.pdf")
		require.Len(t, outcomes, 1)
		assert.Equal(t, models.StatusApplied, outcomes[0].Status)
		assert.Equal(t, []string{"/tmp/resume.pdf"}, fileInput.Files())
		assert.Equal(t, 1, submit.Clicks())
	})
}

func TestOrchestrator_Errors(t *testing.T) {
	page := newResultsPage()

	failing := browsertest.NewElement("Apply")
	failing.ClickErr = errors.New("element is not attached to the DOM")
	panicking := browsertest.NewElement("Apply")
	panicking.PanicOnClick = true
	ok := browsertest.NewElement("Apply")

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), nopLog(), nil)
	outcomes := o.Run(context.Background(), page, []Candidate{
		candidate(0, failing),
		candidate(1, panicking),
		candidate(2, ok),
	}, "")

	require.Len(t, outcomes, 3)
	assert.Equal(t, models.StatusError, outcomes[0].Status)
	assert.Contains(t, outcomes[0].Message, "not attached")
	assert.Equal(t, models.StatusError, outcomes[1].Status)
	assert.Equal(t, "element detached", outcomes[1].Message)
	assert.Equal(t, models.StatusSingleClickApplied, outcomes[2].Status)
}

func TestOrchestrator_TopNCap(t *testing.T) {
	page := newResultsPage()
	var candidates []Candidate
	for i := 0; i < 8; i++ {
		candidates = append(candidates, candidate(i, browsertest.NewElement("Apply")))
	}

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), nopLog(), nil)
	outcomes := o.Run(context.Background(), page, candidates, "")

	require.Len(t, outcomes, 5)
	for i, out := range outcomes {
		assert.Equal(t, i, out.Index)
	}
	assert.Equal(t, 0, candidates[5].ApplyButton.(*browsertest.Element).Clicks())
}

func TestOrchestrator_Timeout(t *testing.T) {
	page := newResultsPage()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := browsertest.NewElement("Apply")
	first.OnClick = cancel
	second := browsertest.NewElement("Apply")

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), nopLog(), nil)
	outcomes := o.Run(ctx, page, []Candidate{candidate(0, first), candidate(1, second)}, "")

	require.Len(t, outcomes, 2)
	for _, out := range outcomes {
		assert.Equal(t, models.StatusError, out.Status)
		assert.Equal(t, timedOutMessage, out.Message)
	}
	assert.Equal(t, 0, second.Clicks())
}

func TestOrchestrator_RestoresResultsPage(t *testing.T) {
	page := newResultsPage()

	stale := browsertest.NewElement("Apply")
	stale.ClickErr = errors.New("stale handle")
	fresh := browsertest.NewElement("Apply")

	relocated := 0
	relocate := func(ctx context.Context, p browser.Page) ([]Card, error) {
		relocated++
		return []Card{
			{Listing: models.Listing{DetailURL: "#card-a"}},
			{Listing: models.Listing{DetailURL: "#card-b"}, ApplyButton: fresh},
		}, nil
	}

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), nopLog(), relocate)
	outcomes := o.Run(context.Background(), page, []Candidate{
		candidate(0, redirectTo(page, nil)),
		candidate(1, stale),
	}, "")

	require.Len(t, outcomes, 2)
	assert.Equal(t, models.StatusRedirectedNoForm, outcomes[0].Status)
	assert.Equal(t, models.StatusSingleClickApplied, outcomes[1].Status)
	assert.Equal(t, 1, relocated)
	assert.Equal(t, 1, fresh.Clicks())
	assert.Equal(t, []string{resultsURL}, page.Visited())
}

func TestOrchestrator_ListingGoneAfterRestore(t *testing.T) {
	page := newResultsPage()

	// the page now shows a different listing where card b used to be
	other := browsertest.NewElement("Apply")
	relocate := func(ctx context.Context, p browser.Page) ([]Card, error) {
		return []Card{
			{Listing: models.Listing{DetailURL: "#card-a"}},
			{Listing: models.Listing{DetailURL: "#card-z"}, ApplyButton: other},
		}, nil
	}

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), nopLog(), relocate)
	outcomes := o.Run(context.Background(), page, []Candidate{
		candidate(0, redirectTo(page, nil)),
		candidate(1, browsertest.NewElement("Apply")),
	}, "")

	require.Len(t, outcomes, 2)
	assert.Equal(t, models.StatusRedirectedNoForm, outcomes[0].Status)
	assert.Equal(t, models.ApplicationOutcome{Index: 1, Status: models.StatusError, Message: goneMessage}, outcomes[1])
	assert.Zero(t, other.Clicks())
}

func TestOrchestrator_LogsCardWithoutButton(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := logging.FromZap(zap.New(core))

	container := browsertest.NewElement("")
	container.HTMLValue = `<div class="internship_meta">` + strings.Repeat("x", 400) + `</div>`
	c := candidate(0, nil)
	c.Container = container

	o := NewOrchestrator(DefaultSelectors().Apply, NewOverlayDismisser(DefaultSelectors().Overlay, 0, nopLog()), fastTiming(), log, nil)
	outcomes := o.Run(context.Background(), newResultsPage(), []Candidate{c}, "")

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.StatusNoButtonFound, outcomes[0].Status)

	entries := logs.FilterMessage("❌ No apply button found").All()
	require.Len(t, entries, 1)
	snippet, ok := entries[0].ContextMap()["card"].(string)
	require.True(t, ok)
	assert.Len(t, snippet, snippetLen)
	assert.True(t, strings.HasPrefix(snippet, `<div class="internship_meta">`))
}

func TestCandidates(t *testing.T) {
	btn := browsertest.NewElement("Apply")
	cards := []Card{
		{Listing: models.Listing{Title: "A"}},
		{Listing: models.Listing{Title: "B"}, ApplyButton: btn},
	}
	ranked := []models.ScoredListing{
		{Listing: cards[1].Listing, Score: 90, Index: 1},
		{Listing: cards[0].Listing, Score: 40, Index: 0},
	}

	got := Candidates(cards, ranked)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, btn, got[0].ApplyButton)
	assert.Nil(t, got[1].ApplyButton)
}

func TestSummarize(t *testing.T) {
	outcomes := []models.ApplicationOutcome{
		{Index: 0, Status: models.StatusApplied},
		{Index: 1, Status: models.StatusApplied},
		{Index: 2, Status: models.StatusNoButtonFound},
		{Index: 3, Status: models.StatusError, Message: timedOutMessage},
		{Index: 4, Status: models.StatusSingleClickApplied},
	}

	summary := Summarize(9, outcomes)
	assert.Equal(t, map[models.ApplyStatus]int{
		models.StatusApplied:            2,
		models.StatusNoButtonFound:      1,
		models.StatusError:              1,
		models.StatusSingleClickApplied: 1,
		models.StatusNotAttempted:       4,
	}, summary)

	total := 0
	for _, n := range summary {
		total += n
	}
	assert.Equal(t, 9, total)

	assert.Empty(t, Summarize(0, nil))
}
