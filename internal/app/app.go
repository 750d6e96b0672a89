// Package app wires configuration into the services shared by the HTTP
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"go-internship-automation/internal/ai"
	"go-internship-automation/internal/api"
	"go-internship-automation/internal/browser"
	"go-internship-automation/internal/cache"
	"go-internship-automation/internal/config"
	"go-internship-automation/internal/database"
	"go-internship-automation/internal/dedup"
	"go-internship-automation/internal/digest"
	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/portal"
	"go-internship-automation/internal/scraper"
	"go-internship-automation/internal/scraper/adzuna"
	"go-internship-automation/internal/scraper/indeed"
	"go-internship-automation/internal/scraper/internshala"
	"go-internship-automation/internal/scraper/jsearch"
	"go-internship-automation/internal/scraper/remotive"
	"go-internship-automation/internal/session"
	"go-internship-automation/utils"
)

const huggingFaceBaseURL = "https://api-inference.huggingface.co/models/"

// App holds the long-lived services. Repo and Bot are nil when their
// settings are absent.
type App struct {
	Config     *config.Config
	Log        *logging.Logger
	Portal     *portal.Service
	Aggregator *scraper.Aggregator
	Skills     *ai.SkillMatcher
	Repo       *database.Repository
	Bot        Bot
}

// Bot is the Telegram surface the app uses.
type Bot interface {
	digest.Sender
	portal.Notifier
	api.MessageSender
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

type options struct {
	launcher browser.Launcher
	bot      Bot
}

func WithLauncher(l browser.Launcher) Option {
	return func(o *options) { o.launcher = l }
}

func WithBot(b Bot) Option {
	return func(o *options) { o.bot = b }
}

// New builds every service from cfg. A configured database that cannot be
// reached is an error; a Telegram bot that cannot start only logs a warning.
func New(ctx context.Context, cfg *config.Config, log *logging.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logging.Nop()
	}
	a := &App{Config: cfg, Log: log, Bot: o.bot}

	var store session.Store = session.NewFileStore(cfg.Sessions.Dir, log)
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		a.Repo = repo
		store = repo
		log.Info("🗄️ Using Postgres for sessions and application tracking")
	}

	if a.Bot == nil && cfg.AlertsEnabled() {
		bot, err := newTelegramBot(cfg)
		if err != nil {
			log.Warn("⚠️ Telegram disabled", "error", err)
		} else {
			a.Bot = bot
		}
	}

	sel := portal.DefaultSelectors()
	if cfg.Portal.SelectorsPath != "" {
		loaded, err := portal.LoadSelectors(cfg.Portal.SelectorsPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load selectors: %w", err)
		}
		sel = loaded
	}

	launcher := o.launcher
	if launcher == nil {
		launcher = &browser.PlaywrightLauncher{UserAgents: cfg.Portal.UserAgents}
	}

	timing := portal.DefaultTiming()
	timing.Navigation = cfg.Timeouts.Navigation
	timing.ManualLogin = cfg.Timeouts.ManualLogin

	portalOpts := []portal.Option{
		portal.WithStore(store),
		portal.WithSelectors(sel),
		portal.WithTiming(timing),
		portal.WithLogger(log.With("component", "portal")),
		portal.WithPortal(cfg.Portal.BaseURL, cfg.Portal.LoginPath, cfg.Portal.ProbePath),
		portal.WithHeadless(cfg.Portal.Headless),
		portal.WithTimeouts(cfg.Timeouts.ApplyRequest, cfg.Timeouts.Recommend),
		portal.WithCache(cache.New[models.Recommendation](cfg.Cache.TTL, cfg.Cache.CheckInterval)),
		portal.WithScreenshots(utils.NewScreenShotDebugger(filepath.Join("logs", "screenshots"), log)),
	}
	if a.Repo != nil {
		portalOpts = append(portalOpts, portal.WithTracker(a.Repo))
	}
	if a.Bot != nil {
		portalOpts = append(portalOpts, portal.WithNotifier(a.Bot))
	}

	svc, err := portal.NewService(launcher, portalOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Portal = svc

	a.Aggregator = scraper.NewAggregator(log.With("component", "scraper"), cfg.Providers.CallTimeout, Providers(cfg, log)...)
	a.Skills = ai.NewSkillMatcher(ai.NewHuggingFaceClient(cfg.HuggingFaceAPIKey, huggingFaceBaseURL), log.With("component", "ai"))

	return a, nil
}

// Providers builds the enabled listing providers. Adzuna is skipped without
// credentials; RapidAPI providers are kept and fail per call instead.
func Providers(cfg *config.Config, log *logging.Logger) []scraper.Provider {
	httpClient := &http.Client{Timeout: cfg.Providers.CallTimeout}
	policy := scraper.RetryPolicy{Retries: cfg.Providers.Retries, Initial: cfg.Providers.Backoff}

	var out []scraper.Provider
	for _, name := range cfg.Providers.Enabled {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "indeed":
			out = append(out, indeed.NewProvider(indeed.Config{
				APIKey:     cfg.Providers.RapidAPIKey,
				HTTPClient: httpClient,
				Retry:      policy,
			}))
		case "jsearch":
			out = append(out, jsearch.NewProvider(jsearch.Config{
				APIKey:     cfg.Providers.RapidAPIKey,
				HTTPClient: httpClient,
				Retry:      policy,
				Limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
			}))
		case "remotive":
			out = append(out, remotive.NewProvider("", httpClient))
		case "adzuna":
			client, err := adzuna.NewClient(adzuna.Config{
				AppID:      cfg.Providers.Adzuna.AppID,
				AppKey:     cfg.Providers.Adzuna.AppKey,
				Country:    cfg.Providers.Adzuna.Country,
				HTTPClient: httpClient,
			})
			if err != nil {
				log.Warn("⚠️ Adzuna disabled", "error", err)
				continue
			}
			p, err := adzuna.NewProvider(client, "")
			if err != nil {
				log.Warn("⚠️ Adzuna disabled", "error", err)
				continue
			}
			out = append(out, p)
		case "internshala":
			out = append(out, internshala.NewProvider())
		default:
			log.Warn("⚠️ Unknown provider in config", "provider", name)
		}
	}
	return out
}

// Router builds the HTTP API on top of the app's services.
func (a *App) Router(uploadDir string) *gin.Engine {
	deps := api.Deps{
		Portal:    a.Portal,
		Jobs:      a.Aggregator,
		Skills:    a.Skills,
		Log:       a.Log.With("component", "api"),
		UploadDir: uploadDir,
	}
	if a.Repo != nil {
		deps.Runs = a.Repo
	}
	if a.Bot != nil {
		deps.Sender = a.Bot
	}
	return api.NewRouter(deps)
}

// Digest builds the seen-listing digest. Without a bot it runs dry.
func (a *App) Digest() *digest.Digest {
	seen := dedup.NewSeenCache(a.Config.CachePath, a.Log)
	var sender digest.Sender
	if a.Bot != nil {
		sender = a.Bot
	}
	return digest.New(a.Aggregator, seen, sender, a.Log.With("component", "digest"))
}

func (a *App) Close() {
	if a.Repo != nil {
		a.Repo.Close()
	}
}
