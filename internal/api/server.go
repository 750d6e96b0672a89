// Package api exposes the portal automation, multi-platform search, skill
// matching and alert registration over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"go-internship-automation/internal/logging"
	"go-internship-automation/internal/models"
	"go-internship-automation/internal/portal"
	"go-internship-automation/internal/scraper"
)

// PortalService drives the logged-in portal browser.
type PortalService interface {
	AutoApply(ctx context.Context, req portal.ApplyRequest) (*models.ApplyResult, error)
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Recommend(ctx context.Context, req portal.RecommendRequest) (models.Recommendation, error)
}

// JobSearcher fans a query out to listing providers.
type JobSearcher interface {
	Fetch(ctx context.Context, platforms []string, q scraper.Query) []models.Listing
}

type SkillAnalyzer interface {
	Analyze(ctx context.Context, userSkills, requirements string) (models.SkillMatch, error)
}

// RunLister reads tracked auto-apply runs.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]models.ApplicationRun, error)
}

// MessageSender delivers alert confirmations to a Telegram chat.
type MessageSender interface {
	SendTo(chatID int64, text string) error
}

// Deps are the services behind the routes. Runs and Sender are optional.
type Deps struct {
	Portal PortalService
	Jobs   JobSearcher
	Skills SkillAnalyzer
	Runs   RunLister
	Sender MessageSender
	Alerts *AlertRegistry
	Log    *logging.Logger
	// UploadDir receives uploaded resumes for the duration of a request.
	UploadDir string
}

type handler struct {
	Deps
	validate *validator.Validate
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}
	if deps.Alerts == nil {
		deps.Alerts = NewAlertRegistry()
	}
	h := &handler{Deps: deps, validate: newValidator()}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Log))

	r.GET("/", h.health)

	api := r.Group("/api")
	api.POST("/auto-apply", h.autoApply)
	api.POST("/auto-login", h.autoLogin)
	api.POST("/recommend-internships", h.recommend)
	api.POST("/jobs", h.jobs)
	api.POST("/skill-match", h.skillMatch)
	api.POST("/alerts", h.createAlert)
	api.GET("/alerts", h.listAlerts)
	api.GET("/applications", h.applications)

	return r
}

func requestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("🌐 Request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
