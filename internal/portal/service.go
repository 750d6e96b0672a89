package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/cache"
	"go-internship-automation/internal/filter"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/session"
	"go-internship-automation/utils"
)

// ErrInvalidRequest wraps input validation failures. No browser is launched.
var ErrInvalidRequest = errors.New("invalid request")

const (
	defaultMaxStipend = 1000000
	internshipsPath   = "/internships"
	jobsPath          = "/jobs"
)

// Tracker persists finished apply runs.
type Tracker interface {
	RecordRun(ctx context.Context, run models.ApplicationRun) error
}

// Notifier is told about finished apply runs.
type Notifier interface {
	NotifyRun(ctx context.Context, result *models.ApplyResult, criteria models.SearchCriteria) error
}

// ApplyRequest is one auto-apply call.
type ApplyRequest struct {
	Credentials models.Credentials
	Criteria    models.SearchCriteria
	// ResumePath is an optional local file uploaded into application forms.
	ResumePath string
}

// Validate names every missing required field.
func (r ApplyRequest) Validate() error {
	var missing []string
	if r.Credentials.Email == "" {
		missing = append(missing, "email")
	}
	if r.Credentials.Password == "" {
		missing = append(missing, "password")
	}
	if r.Criteria.Role == "" {
		missing = append(missing, "role")
	}
	if r.Criteria.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s are required", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if !r.Criteria.Type.Valid() {
		return fmt.Errorf("%w: type must be internship or job", ErrInvalidRequest)
	}
	return nil
}

// RecommendRequest asks for skill-based recommendations. Credentials are
// only used when no stored session exists.
type RecommendRequest struct {
	Skills      string
	MinStipend  int
	MaxStipend  int
	Credentials models.Credentials
}

// Option configures Service
type Option func(*config)

type config struct {
	store            session.Store
	sel              *Selectors
	timing           Timing
	log              *logging.Logger
	baseURL          string
	loginPath        string
	probePath        string
	headless         bool
	applyTimeout     time.Duration
	recommendTimeout time.Duration
	cache            *cache.Cache[models.Recommendation]
	tracker          Tracker
	notifier         Notifier
	shots            *utils.ScreenShotDebugger
	clock            func() time.Time
}

func WithStore(store session.Store) Option {
	return func(c *config) { c.store = store }
}

func WithSelectors(sel *Selectors) Option {
	return func(c *config) { c.sel = sel }
}

func WithTiming(t Timing) Option {
	return func(c *config) { c.timing = t }
}

func WithLogger(log *logging.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithPortal sets the portal base URL and the login and probe paths.
func WithPortal(baseURL, loginPath, probePath string) Option {
	return func(c *config) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		c.loginPath = loginPath
		c.probePath = probePath
	}
}

func WithHeadless(headless bool) Option {
	return func(c *config) { c.headless = headless }
}

// WithTimeouts sets the overall budgets of an apply and a recommend request.
func WithTimeouts(apply, recommend time.Duration) Option {
	return func(c *config) {
		c.applyTimeout = apply
		c.recommendTimeout = recommend
	}
}

func WithCache(rc *cache.Cache[models.Recommendation]) Option {
	return func(c *config) { c.cache = rc }
}

func WithTracker(t Tracker) Option {
	return func(c *config) { c.tracker = t }
}

func WithNotifier(n Notifier) Option {
	return func(c *config) { c.notifier = n }
}

func WithScreenshots(s *utils.ScreenShotDebugger) Option {
	return func(c *config) { c.shots = s }
}

func WithClock(clock func() time.Time) Option {
	return func(c *config) { c.clock = clock }
}

// Service runs the browser workflows. Each call launches its own browser.
type Service struct {
	config
	launcher  browser.Launcher
	overlays  *OverlayDismisser
	extractor *Extractor
}

func NewService(launcher browser.Launcher, opts ...Option) (*Service, error) {
	if launcher == nil {
		return nil, fmt.Errorf("portal.Service: launcher is required")
	}
	cfg := config{
		timing:           DefaultTiming(),
		baseURL:          "https://internshala.com",
		loginPath:        "/login/user",
		probePath:        internshipsPath,
		headless:         true,
		applyTimeout:     300 * time.Second,
		recommendTimeout: 180 * time.Second,
		clock:            time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logging.Nop()
	}
	if cfg.store == nil {
		cfg.store = session.NewMemoryStore()
	}
	if cfg.sel == nil {
		cfg.sel = DefaultSelectors()
	}
	if cfg.cache == nil {
		cfg.cache = cache.New[models.Recommendation](cache.DefaultTTL, cache.DefaultCheckInterval)
	}

	return &Service{
		config:    cfg,
		launcher:  launcher,
		overlays:  NewOverlayDismisser(cfg.sel.Overlay, cfg.timing.OverlayDelay, cfg.log),
		extractor: NewExtractor(cfg.sel, cfg.timing, cfg.log),
	}, nil
}

func (s *Service) url(path string) string {
	return s.baseURL + path
}

func (s *Service) loginFlow(headless bool) *LoginFlow {
	return NewLoginFlow(s.sel.Login, s.url(s.loginPath), headless, s.store, s.timing, s.log)
}

// sessionGuard closes every session it was handed exactly once, whether the
// request returns normally or its context expires first.
type sessionGuard struct {
	mu   sync.Mutex
	sess browser.Session
	log  *logging.Logger
}

func (g *sessionGuard) set(sess browser.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sess = sess
}

func (g *sessionGuard) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sess == nil {
		return
	}
	if err := g.sess.Close(); err != nil {
		g.log.Warn("⚠️ Failed to close browser", "error", err)
	}
	g.sess = nil
}

// launch opens a browser owned by a guard. The returned release must be
// deferred by the caller; the guard also fires when ctx is done.
func (s *Service) launch(ctx context.Context, headless bool) (*sessionGuard, browser.Session, func(), error) {
	sess, err := s.launcher.Launch(ctx, browser.LaunchOptions{Headless: headless})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("launch browser: %w", err)
	}
	g := &sessionGuard{sess: sess, log: s.log}
	stop := context.AfterFunc(ctx, g.close)
	release := func() {
		stop()
		g.close()
	}
	return g, sess, release, nil
}

// ensureLoggedIn reuses stored cookies when the probe accepts them and falls
// back to the login flow otherwise. It may replace the session when a manual
// CAPTCHA solve is needed, so it returns the page to keep using.
func (s *Service) ensureLoggedIn(ctx context.Context, g *sessionGuard, page browser.Page, creds models.Credentials) (browser.Page, error) {
	if cookies, err := s.store.Load(ctx, creds.Email); err == nil {
		if err := page.AddCookies(ctx, cookies); err != nil {
			s.log.Warn("⚠️ Failed to restore cookies", "error", err)
		}
		ok, err := session.Validate(ctx, page, s.url(s.probePath), s.sel.Login.LoggedOut)
		if err != nil {
			s.log.Warn("⚠️ Session probe failed", "error", err)
		}
		if ok {
			s.log.Info("🍪 Reusing stored session")
			return page, nil
		}
		s.log.Info("🍪 Session expired, proceeding with login")
	} else {
		s.log.Info("🍪 No stored session, proceeding with login")
	}

	_, err := s.loginFlow(s.headless).Run(ctx, page, creds)
	if !errors.Is(err, ErrManualLoginRequired) {
		return page, err
	}

	g.close()
	if err := ManualLogin(ctx, s.launcher, s.loginFlow(false), creds); err != nil {
		return nil, err
	}
	cookies, err := s.store.Load(ctx, creds.Email)
	if err != nil {
		return nil, fmt.Errorf("load cookies after manual login: %w", err)
	}
	sess, err := s.launcher.Launch(ctx, browser.LaunchOptions{Headless: true, Cookies: cookies})
	if err != nil {
		return nil, fmt.Errorf("relaunch browser: %w", err)
	}
	g.set(sess)
	return sess.Page(), nil
}

func listingsPath(t models.ListingType) string {
	if t == models.Job {
		return jobsPath
	}
	return internshipsPath
}

// AutoApply logs in, filters the results page, ranks every card against the
// criteria and applies to the top ranked ones.
func (s *Service) AutoApply(ctx context.Context, req ApplyRequest) (*models.ApplyResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	crit := req.Criteria
	log := s.log.With("type", crit.Type, "role", crit.Role)

	ctx, cancel := context.WithTimeout(ctx, s.applyTimeout)
	defer cancel()

	g, sess, release, err := s.launch(ctx, s.headless)
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := s.ensureLoggedIn(ctx, g, sess.Page(), req.Credentials)
	if err != nil {
		return nil, s.abort(ctx, err)
	}

	log.Info("🌐 Opening listings", "url", s.url(listingsPath(crit.Type)))
	if err := page.Goto(ctx, s.url(listingsPath(crit.Type))); err != nil {
		return nil, s.abort(ctx, err)
	}
	s.overlays.Dismiss(ctx, page)
	s.extractor.ApplyFilters(ctx, page, crit)

	cards, err := s.extractor.ExtractCards(ctx, page, crit.Type)
	if err != nil {
		s.shots.CaptureAndLog(page, "no-listings", "No listings found")
		return nil, s.abort(ctx, err)
	}

	listings := make([]models.Listing, len(cards))
	for i, c := range cards {
		listings[i] = c.Listing
	}
	ranked := filter.RankByCriteria(listings, crit, filter.TopN)

	orch := NewOrchestrator(s.sel.Apply, s.overlays, s.timing, log, func(ctx context.Context, page browser.Page) ([]Card, error) {
		return s.extractor.ExtractCards(ctx, page, crit.Type)
	})
	outcomes := orch.Run(ctx, page, Candidates(cards, ranked), req.ResumePath)

	result := &models.ApplyResult{
		RunID:        uuid.NewString(),
		Message:      fmt.Sprintf("Auto-apply for %ss completed successfully", crit.Type),
		TotalMatched: len(cards),
		Statuses:     outcomes,
		Summary:      Summarize(len(cards), outcomes),
		Top:          ranked,
		FinishedAt:   s.clock(),
	}
	if ctx.Err() != nil {
		result.Message = fmt.Sprintf("Auto-apply for %ss stopped: %s", crit.Type, timedOutMessage)
	}

	log.Info("📊 Application summary", "total", result.TotalMatched, "summary", result.Summary)
	s.afterRun(ctx, req, result)
	return result, nil
}

// abort turns a context expiry into a clear timeout error.
func (s *Service) abort(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", timedOutMessage, context.DeadlineExceeded)
	}
	return err
}

func (s *Service) afterRun(ctx context.Context, req ApplyRequest, result *models.ApplyResult) {
	//the request context may already be done
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if s.tracker != nil {
		run := models.ApplicationRun{
			ID:           result.RunID,
			UserKey:      session.Key(req.Credentials.Email),
			Type:         req.Criteria.Type,
			Role:         req.Criteria.Role,
			TotalMatched: result.TotalMatched,
			CreatedAt:    result.FinishedAt,
		}
		byIndex := make(map[int]models.ScoredListing, len(result.Top))
		for _, t := range result.Top {
			byIndex[t.Index] = t
		}
		for _, o := range result.Statuses {
			l := byIndex[o.Index]
			run.Outcomes = append(run.Outcomes, models.TrackedApplication{
				RunID:     result.RunID,
				Index:     o.Index,
				Title:     l.Title,
				Company:   l.Company,
				DetailURL: l.DetailURL,
				Score:     l.Score,
				Status:    o.Status,
				Message:   o.Message,
			})
		}
		if err := s.tracker.RecordRun(ctx, run); err != nil {
			s.log.Warn("⚠️ Failed to record apply run", "error", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyRun(ctx, result, req.Criteria); err != nil {
			s.log.Warn("⚠️ Failed to send run notification", "error", err)
		}
	}
}

// Login signs in with a visible browser so a human can solve any CAPTCHA,
// then stores the session cookies.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var missing []string
	if creds.Email == "" {
		missing = append(missing, "email")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s are required", ErrInvalidRequest, strings.Join(missing, ", "))
	}

	ctx, cancel := context.WithTimeout(ctx, max(s.applyTimeout, s.timing.Navigation+s.timing.ManualLogin))
	defer cancel()

	_, sess, release, err := s.launch(ctx, false)
	if err != nil {
		return "", err
	}
	defer release()

	if _, err := s.loginFlow(false).Run(ctx, sess.Page(), creds); err != nil {
		return "", s.abort(ctx, err)
	}
	return "Login successful, session saved", nil
}

// Recommend scrapes listings for the skills and ranks them by text
// similarity. It never fails on scraping problems: the fixed placeholder
// dataset is returned instead, flagged as a fallback.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (models.Recommendation, error) {
	if strings.TrimSpace(req.Skills) == "" {
		return models.Recommendation{}, fmt.Errorf("%w: skills are required", ErrInvalidRequest)
	}
	if req.MaxStipend <= 0 {
		req.MaxStipend = defaultMaxStipend
	}

	key := cache.Key(req.Skills, req.MinStipend, req.MaxStipend)
	if rec, ok := s.cache.Get(key); ok {
		s.log.Info("⚡ Returning cached recommendations", "key", key)
		return rec, nil
	}

	rec, err := s.scrapeRecommendations(ctx, req)
	if err != nil {
		s.log.Warn("⚠️ Recommendation scrape failed, using placeholder dataset", "error", err)
		rec = MockRecommendations(req.Skills, req.MinStipend, req.MaxStipend)
	}
	s.cache.Set(key, rec)
	return rec, nil
}

func (s *Service) scrapeRecommendations(ctx context.Context, req RecommendRequest) (rec models.Recommendation, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.recommendTimeout)
	defer cancel()

	if _, loadErr := s.store.Load(ctx, req.Credentials.Email); loadErr != nil &&
		(req.Credentials.Email == "" || req.Credentials.Password == "") {
		return rec, errors.New("no stored session or credentials provided")
	}

	g, sess, release, err := s.launch(ctx, s.headless)
	if err != nil {
		return rec, err
	}
	defer release()

	page := sess.Page()
	defer func() {
		if err != nil {
			s.shots.CaptureAndLog(page, "recommend-error", "Recommendation scrape failed")
		}
	}()

	page, err = s.ensureLoggedIn(ctx, g, page, req.Credentials)
	if err != nil {
		return rec, err
	}

	if err = page.Goto(ctx, s.url(internshipsPath)); err != nil {
		return rec, err
	}
	if strings.Contains(page.URL(), "login") {
		return rec, errors.New("invalid session, login required")
	}
	s.overlays.Dismiss(ctx, page)

	listings, err := s.extractor.Extract(ctx, page, models.Internship, SearchKeyword(req.Skills), DefaultMaxPages)
	if err != nil {
		return rec, err
	}
	if len(listings) == 0 {
		return rec, ErrNoListings
	}

	kept := listings[:0]
	for _, l := range listings {
		if filter.StipendInRange(l.StipendValue, req.MinStipend, req.MaxStipend) && filter.IsITRelated(l) {
			kept = append(kept, l)
		}
	}
	ranked := filter.ScoreBySimilarity(req.Skills, kept, filter.TopN)
	s.log.Info("🎓 Recommendations ranked", "scraped", len(listings), "eligible", len(kept), "returned", len(ranked))

	return models.Recommendation{Recommendations: ranked, AppliedCount: 0}, nil
}

// CheckSession reports whether the stored session for user still passes the
// logged-in probe. A missing jar is reported as false without launching.
func (s *Service) CheckSession(ctx context.Context, user string) (bool, error) {
	cookies, err := s.store.Load(ctx, user)
	if errors.Is(err, session.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.recommendTimeout)
	defer cancel()

	_, sess, release, err := s.launch(ctx, true)
	if err != nil {
		return false, err
	}
	defer release()

	page := sess.Page()
	if err := page.AddCookies(ctx, cookies); err != nil {
		return false, fmt.Errorf("restore cookies: %w", err)
	}
	ok, err := session.Validate(ctx, page, s.url(s.probePath), s.sel.Login.LoggedOut)
	if err != nil {
		s.shots.CaptureAndLog(page, "session-check", err.Error())
		return false, s.abort(ctx, err)
	}
	return ok, nil
}
