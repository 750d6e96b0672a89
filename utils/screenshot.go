package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-internship-automation/internal/logging"
)

// Screenshotter is anything that can write a full-page screenshot to disk.
type Screenshotter interface {
	Screenshot(path string) error
}

// ScreenShotDebugger saves screenshots of failure paths under logs/screenshots
type ScreenShotDebugger struct {
	outputDir string
	log       *logging.Logger
}

func NewScreenShotDebugger(dir string, log *logging.Logger) *ScreenShotDebugger {
	if log == nil {
		log = logging.Nop()
	}
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn("⚠️ Failed to create screenshot directory", "dir", dir, "error", err)
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
	}
}

// CaptureAndLog returns the path written. A nil debugger is a no-op.
func (s *ScreenShotDebugger) CaptureAndLog(page Screenshotter, name, message string) (string, error) {
	if s == nil || page == nil {
		return "", nil
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sanitize(name), timestamp)
	path := filepath.Join(s.outputDir, filename)
	s.log.Info("📸 "+message, "path", path)

	if err := page.Screenshot(path); err != nil {
		s.log.Warn("⚠️ Failed to capture screenshot", "error", err)
		return "", err
	}
	return path, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
}
