package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"go-internship-automation/internal/models"
	"go-internship-automation/internal/portal"
	"go-internship-automation/internal/scraper"
)

const (
	msgApplyRequired      = "Email, password, role, and type (internship/job) are required"
	msgLoginRequired      = "Email and password are required"
	msgSkillsRequired     = "Skills are required"
	msgSkillsNotString    = "Skills must be a string"
	msgJobsRequired       = "Missing required parameters"
	msgSkillMatchRequired = "User skills and job requirements are required"
	msgBodyMissing        = "Request body is missing"
	msgAlertRequired      = "At least one of email or Telegram ID is required"
	msgInvalidBody        = "Invalid request body"
)

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Internship Autopilot API is running!",
		"status":  "healthy",
	})
}

// bindJSON decodes the body. An empty body leaves req untouched so the
// validator can name the missing fields.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return &ValidationError{Message: msgInvalidBody}
	}
	return nil
}

func (h *handler) autoApply(c *gin.Context) {
	var req autoApplyRequest
	multipart := strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)

	if multipart {
		if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
			abortWithError(c, &ValidationError{Message: msgInvalidBody})
			return
		}
	} else if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	if err := validate(h.validate, req, msgApplyRequired); err != nil {
		abortWithError(c, err)
		return
	}

	var resumePath string
	if multipart {
		path, cleanup, err := h.saveResume(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer cleanup()
		resumePath = path
	}

	result, err := h.Portal.AutoApply(c.Request.Context(), portal.ApplyRequest{
		Credentials: models.Credentials{Email: req.Email, Password: req.Password},
		Criteria:    req.criteria(),
		ResumePath:  resumePath,
	})
	if err != nil {
		h.Log.Error("❌ Auto-apply failed", "type", req.Type, "error", err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// saveResume stores the optional "resume" upload in a temp file that lives
// until cleanup is called.
func (h *handler) saveResume(c *gin.Context) (string, func(), error) {
	file, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return "", func() {}, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("read resume upload: %w", err)
	}

	dir, err := os.MkdirTemp(h.UploadDir, "resume-*")
	if err != nil {
		return "", nil, fmt.Errorf("create upload dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("save resume upload: %w", err)
	}
	return path, cleanup, nil
}

func (h *handler) autoLogin(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	if err := validate(h.validate, req, msgLoginRequired); err != nil {
		abortWithError(c, err)
		return
	}

	msg, err := h.Portal.Login(c.Request.Context(), models.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.Log.Error("❌ Auto-login failed", "error", err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *handler) recommend(c *gin.Context) {
	var req recommendRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}

	if req.Skills == nil || req.Skills == "" {
		abortWithError(c, &ValidationError{Message: msgSkillsRequired, Missing: []string{"skills"}})
		return
	}
	skills, ok := req.Skills.(string)
	if !ok {
		abortWithError(c, &ValidationError{Message: msgSkillsNotString})
		return
	}
	if err := validate(h.validate, req, msgInvalidBody); err != nil {
		abortWithError(c, err)
		return
	}

	rec, err := h.Portal.Recommend(c.Request.Context(), portal.RecommendRequest{
		Skills:      skills,
		MinStipend:  int(req.MinStipend),
		MaxStipend:  int(req.MaxStipend),
		Credentials: models.Credentials{Email: req.Email, Password: req.Password},
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handler) jobs(c *gin.Context) {
	var req jobsRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	if err := validate(h.validate, req, msgJobsRequired); err != nil {
		abortWithError(c, err)
		return
	}

	listings := h.Jobs.Fetch(c.Request.Context(), req.Platforms, scraper.Query{
		Skills:     req.Skills,
		Field:      req.Field,
		MinStipend: int(req.MinStipend),
		MaxStipend: int(req.MaxStipend),
	})
	c.JSON(http.StatusOK, listings)
}

func (h *handler) skillMatch(c *gin.Context) {
	if c.Request.ContentLength == 0 {
		abortWithError(c, &ValidationError{Message: msgBodyMissing})
		return
	}

	var req skillMatchRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	if err := validate(h.validate, req, msgSkillMatchRequired); err != nil {
		abortWithError(c, err)
		return
	}

	match, err := h.Skills.Analyze(c.Request.Context(), req.UserSkills, req.JobRequirements)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

func (h *handler) createAlert(c *gin.Context) {
	var req alertRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.TelegramID = strings.TrimSpace(req.TelegramID)
	if req.Email == "" && req.TelegramID == "" {
		abortWithError(c, &ValidationError{Message: msgAlertRequired, Missing: []string{"email", "telegramId"}})
		return
	}
	if err := validate(h.validate, req, msgInvalidBody); err != nil {
		abortWithError(c, err)
		return
	}

	sub := h.Alerts.Register(req.Email, req.TelegramID)
	msg := sub.Confirmation()
	h.confirmOnTelegram(sub, msg)

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// confirmOnTelegram is best effort: the subscription is stored either way.
func (h *handler) confirmOnTelegram(sub Subscription, msg string) {
	if h.Sender == nil || sub.TelegramID == "" {
		return
	}
	chatID, err := strconv.ParseInt(sub.TelegramID, 10, 64)
	if err != nil {
		h.Log.Warn("⚠️ Telegram ID is not a chat id, skipping confirmation", "telegramId", sub.TelegramID)
		return
	}
	if err := h.Sender.SendTo(chatID, "✅ "+msg); err != nil {
		h.Log.Warn("⚠️ Failed to send alert confirmation", "error", err)
	}
}

func (h *handler) listAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Alerts.List())
}

func (h *handler) applications(c *gin.Context) {
	if h.Runs == nil {
		c.JSON(http.StatusOK, []models.ApplicationRun{})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.Runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.Log.Error("❌ Failed to fetch applications", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}
	c.JSON(http.StatusOK, runs)
}
