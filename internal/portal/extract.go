package portal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
)

// ErrNoListings means the results page had no listing cards at all.
var ErrNoListings = errors.New("portal: no listings found")

// ErrSearchUnavailable means the keyword search box never appeared.
var ErrSearchUnavailable = errors.New("portal: search box not found")

const DefaultMaxPages = 3

var activelyHiringRegex = regexp.MustCompile(`(?i)Actively hiring\s*`)

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Software Development", []string{"python", "javascript", "html", "css", "java"}},
	{"Data Science", []string{"data", "machine learning", "sql"}},
}

// SearchKeyword maps free-text skills onto a portal category, or returns the
// skills unchanged.
func SearchKeyword(skills string) string {
	lower := strings.ToLower(strings.TrimSpace(skills))
	for _, c := range categoryKeywords {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.category
			}
		}
	}
	return strings.TrimSpace(skills)
}

// Card is one listing on the apply results page together with its apply
// control, which may be nil.
type Card struct {
	models.Listing
	ApplyButton browser.Element
	// Container is the card element itself.
	Container browser.Element
}

// Extractor reads listings off results pages using the selector cascades.
type Extractor struct {
	sel    *Selectors
	timing Timing
	log    *logging.Logger
}

func NewExtractor(sel *Selectors, timing Timing, log *logging.Logger) *Extractor {
	return &Extractor{sel: sel, timing: timing, log: log}
}

// Extract searches for keyword and reads up to maxPages result pages. A
// listing is kept only if title, company, link and stipend were all found.
// Listings are unique by DetailURL; the first occurrence wins.
func (x *Extractor) Extract(ctx context.Context, page browser.Page, typ models.ListingType, keyword string, maxPages int) ([]models.Listing, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	_, boxSel := waitFirst(ctx, page, x.sel.Search.Box, x.timing.SearchBox)
	if boxSel == "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrSearchUnavailable
	}

	x.log.Info("🔍 Searching", "keyword", keyword)
	if err := page.Type(ctx, boxSel, keyword, x.timing.TypeDelay); err != nil {
		return nil, fmt.Errorf("type keyword: %w", err)
	}
	if err := page.Press(ctx, "Enter"); err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	if err := browser.Sleep(ctx, x.timing.SettleDelay); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var listings []models.Listing
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if err := browser.Sleep(ctx, x.timing.PageDelay); err != nil {
			return listings, err
		}

		found := x.extractPage(ctx, page, typ)
		added := 0
		for _, l := range found {
			if seen[l.DetailURL] {
				continue
			}
			seen[l.DetailURL] = true
			listings = append(listings, l)
			added++
		}
		x.log.Info("📄 Scraped page", "page", pageNum, "found", len(found), "new", added)

		next, _ := first(ctx, page, x.sel.Search.NextPage)
		if next == nil || pageNum >= maxPages {
			break
		}
		if err := browser.HumanScroll(ctx, page, scrollSteps, x.timing.ScrollPause); err != nil {
			if ctx.Err() != nil {
				return listings, err
			}
			x.log.Debug("scroll failed", "error", err)
		}
		if err := next.Click(ctx); err != nil {
			x.log.Warn("⚠️ Failed to open next page", "page", pageNum, "error", err)
			break
		}
		if err := browser.Sleep(ctx, x.timing.SettleDelay); err != nil {
			return listings, err
		}
	}

	x.log.Info("📦 Scraped listings", "count", len(listings))
	return listings, nil
}

func (x *Extractor) extractPage(ctx context.Context, page browser.Page, typ models.ListingType) []models.Listing {
	cards, _ := allFirst(ctx, page, x.sel.Listings.Containers[typ])
	base := page.URL()

	out := make([]models.Listing, 0, len(cards))
	for _, card := range cards {
		f := x.sel.Listings
		title := activelyHiringRegex.ReplaceAllString(textOf(ctx, card, f.Title), "")
		company := activelyHiringRegex.ReplaceAllString(textOf(ctx, card, f.Company), "")
		stipend := textOf(ctx, card, f.Stipend)
		link := linkOf(ctx, card, f.Link, base)

		if title == Sentinel || title == "" || company == Sentinel || company == "" || stipend == Sentinel || link == Sentinel {
			continue
		}

		out = append(out, models.Listing{
			Title:        strings.TrimSpace(title),
			Company:      strings.TrimSpace(company),
			Department:   orDefault(textOf(ctx, card, f.Department), ""),
			Location:     orDefault(textOf(ctx, card, f.Location), ""),
			Duration:     orDefault(textOf(ctx, card, f.Duration), ""),
			Stipend:      stipend,
			StipendValue: ParseStipend(stipend),
			DetailURL:    link,
			Source:       "Internshala",
		})
	}
	return out
}

// ExtractCards reads every card on the current results page for the apply
// loop. Missing fields get defaults; zero cards is ErrNoListings.
func (x *Extractor) ExtractCards(ctx context.Context, page browser.Page, typ models.ListingType) ([]Card, error) {
	containers := x.sel.Cards.Containers[typ]
	if _, sel := waitFirst(ctx, page, containers, x.timing.Cards); sel == "" {
		x.log.Warn("⚠️ Listings not found within timeout", "type", typ)
	}

	els, _ := allFirst(ctx, page, containers)
	if len(els) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w matching the criteria (%ss)", ErrNoListings, typ)
	}
	x.log.Info("📦 Found listings", "type", typ, "count", len(els))

	base := page.URL()
	f := x.sel.Cards
	seen := make(map[string]bool)
	cards := make([]Card, 0, len(els))
	for i, el := range els {
		stipend := orDefault(textOf(ctx, el, f.Stipend), "")
		button, _ := first(ctx, el, f.ApplyButton)

		var detail string
		if button != nil {
			detail = hrefOf(ctx, button, base)
		}
		if detail == "" {
			detail = "#card-" + strconv.Itoa(i)
		}
		if seen[detail] {
			continue
		}
		seen[detail] = true

		cards = append(cards, Card{
			Listing: models.Listing{
				Title:        orDefault(textOf(ctx, el, f.Title), "Unknown Title"),
				Location:     orDefault(textOf(ctx, el, f.Location), ""),
				Stipend:      stipend,
				StipendValue: parseAmount(stipend),
				Duration:     orDefault(textOf(ctx, el, f.Duration), ""),
				DetailURL:    detail,
				Source:       "Internshala",
			},
			ApplyButton: button,
			Container:   el,
		})
	}
	return cards, nil
}

// ApplyFilters sets keyword, location, stipend and duration filters and runs
// the search. Every step is best effort.
func (x *Extractor) ApplyFilters(ctx context.Context, page browser.Page, c models.SearchCriteria) {
	f := x.sel.Filters

	if _, sel := waitFirst(ctx, page, f.Keywords, x.timing.FilterControl); sel != "" {
		if err := x.typeAndEnter(ctx, page, sel, c.Role); err != nil {
			x.log.Warn("⚠️ Failed to set keyword filter", "error", err)
		}
	} else {
		x.log.Warn("⚠️ Keyword filter not found")
	}

	if c.Location != "" {
		_, sel := waitFirst(ctx, page, f.Location, x.timing.FilterControl)
		switch {
		case sel != "":
			if err := x.typeAndEnter(ctx, page, sel, c.Location); err != nil {
				x.log.Warn("⚠️ Failed to set location filter", "error", err)
			}
		case strings.EqualFold(c.Location, "remote"):
			if remote, _ := first(ctx, page, f.Remote); remote != nil {
				x.log.Info("🏠 Remote filter found as a checkbox, clicking...")
				if err := remote.Click(ctx); err != nil {
					x.log.Warn("⚠️ Failed to click remote filter", "error", err)
				}
				x.waitReady(ctx, page, x.timing.FilterReady)
			}
		}
	}

	if c.MinStipend > 0 {
		if _, sel := waitFirst(ctx, page, f.Stipend, x.timing.FilterControl); sel != "" {
			if err := page.Type(ctx, sel, strconv.Itoa(c.MinStipend), x.timing.TypeDelay/2); err != nil {
				x.log.Warn("⚠️ Failed to set stipend filter", "error", err)
			}
			x.waitReady(ctx, page, x.timing.FilterReady)
		}
	}

	if months := durationMonths(c.Duration); months != "" {
		if _, sel := waitFirst(ctx, page, f.Duration, x.timing.FilterControl); sel != "" {
			if err := page.SelectOption(ctx, sel, months); err != nil {
				x.log.Warn("⚠️ Failed to set duration filter", "error", err)
			}
			x.waitReady(ctx, page, x.timing.FilterReady)
		}
	}

	if button, _ := waitFirst(ctx, page, f.Search[c.Type], x.timing.FilterControl); button != nil {
		if err := button.Click(ctx); err != nil {
			x.log.Warn("⚠️ Failed to click search button", "error", err)
		}
		x.waitReady(ctx, page, x.timing.Ready)
	}
}

func (x *Extractor) typeAndEnter(ctx context.Context, page browser.Page, sel, text string) error {
	if err := page.Type(ctx, sel, text, x.timing.TypeDelay/2); err != nil {
		return err
	}
	if err := page.Press(ctx, "Enter"); err != nil {
		return err
	}
	x.waitReady(ctx, page, x.timing.FilterReady)
	return nil
}

func (x *Extractor) waitReady(ctx context.Context, page browser.Page, timeout time.Duration) {
	if err := page.WaitReady(ctx, timeout); err != nil {
		x.log.Debug("page not ready", "error", err)
	}
}

func linkOf(ctx context.Context, card browser.Element, selectors []string, base string) string {
	el, _ := first(ctx, card, selectors)
	if el == nil {
		return Sentinel
	}
	if href := hrefOf(ctx, el, base); href != "" {
		return href
	}
	return Sentinel
}

// hrefOf resolves href (or data-href) against the page URL.
func hrefOf(ctx context.Context, el browser.Element, base string) string {
	href, err := el.Attr(ctx, "href")
	if err != nil || strings.TrimSpace(href) == "" {
		href, err = el.Attr(ctx, "data-href")
		if err != nil {
			return ""
		}
	}
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	return resolveURL(base, href)
}

func resolveURL(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return href
	}
	return b.ResolveReference(ref).String()
}
