package scraper

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
)

const defaultCallTimeout = 30 * time.Second

// Aggregator queries several providers concurrently.
type Aggregator struct {
	providers   map[string]Provider
	names       []string
	callTimeout time.Duration
	log         *logging.Logger
}

func NewAggregator(log *logging.Logger, callTimeout time.Duration, providers ...Provider) *Aggregator {
	if log == nil {
		log = logging.Nop()
	}
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	a := &Aggregator{
		providers:   make(map[string]Provider, len(providers)),
		callTimeout: callTimeout,
		log:         log,
	}
	for _, p := range providers {
		key := strings.ToLower(p.Name())
		if _, dup := a.providers[key]; !dup {
			a.names = append(a.names, p.Name())
		}
		a.providers[key] = p
	}
	return a
}

// Platforms lists the registered provider names in registration order.
func (a *Aggregator) Platforms() []string {
	return append([]string(nil), a.names...)
}

// Fetch queries every named platform at once and concatenates the results
// in the order the platforms were given. Unknown platforms and failing
// providers contribute nothing; Fetch itself never fails. Listings outside
// the stipend range are dropped. There is no cross-provider dedup.
func (a *Aggregator) Fetch(ctx context.Context, platforms []string, q Query) []models.Listing {
	results := make([][]models.Listing, len(platforms))

	var g errgroup.Group
	for i, name := range platforms {
		p, ok := a.providers[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			a.log.Warn("⚠️ Unknown platform requested", "platform", name)
			continue
		}
		i, p := i, p
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, p, q)
			return nil
		})
	}
	_ = g.Wait()

	var out []models.Listing
	for _, r := range results {
		out = append(out, r...)
	}
	if out == nil {
		out = []models.Listing{}
	}
	return out
}

// fetchOne isolates one provider: errors and panics both yield nil.
func (a *Aggregator) fetchOne(ctx context.Context, p Provider, q Query) (kept []models.Listing) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("💥 Provider panicked", "provider", p.Name(), "panic", r)
			kept = nil
		}
	}()

	start := time.Now()
	listings, err := p.Fetch(callCtx, q)
	if err != nil {
		a.log.Warn("⚠️ Provider failed", "provider", p.Name(), "error", err, "elapsed", time.Since(start))
		return nil
	}

	kept = make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if filter.StipendInRange(float64(FirstNumber(l.Stipend)), q.MinStipend, q.MaxStipend) {
			kept = append(kept, l)
		}
	}
	a.log.Info("📦 Provider finished", "provider", p.Name(), "fetched", len(listings), "kept", len(kept))
	return kept
}
