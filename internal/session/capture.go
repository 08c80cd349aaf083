package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/browser"
)

const captureTimeFormat = "20060102_150405"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Capture is where a failure's screenshot and page markup were written.
// Either path is empty when that half could not be taken.
type Capture struct {
	Screenshot string
	HTML       string
}

// Capturer writes failure evidence under Dir.
type Capturer struct {
	Dir string
	Now func() time.Time
	log *zap.Logger
}

func NewCapturer(dir string, log *zap.Logger) *Capturer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Capturer{Dir: dir, Now: time.Now, log: log}
}

// FileName is the stem shared by both files of one capture:
// <name>_<timestamp>_<8 hex chars>. The random suffix keeps parallel
// captures of the same scenario apart.
func (c *Capturer) FileName(name string) string {
	safe := strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if safe == "" {
		safe = "capture"
	}
	return fmt.Sprintf("%s_%s_%s", safe, c.Now().Format(captureTimeFormat), uuid.NewString()[:8])
}

// Capture takes a full-page screenshot and saves the page HTML. It writes
// whatever it can and reports every half that failed.
func (c *Capturer) Capture(tab browser.Tab, name string) (Capture, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return Capture{}, fmt.Errorf("failed to create capture dir: %w", err)
	}
	stem := filepath.Join(c.Dir, c.FileName(name))

	var out Capture
	var errs []error

	png := stem + ".png"
	if _, err := tab.Screenshot(png, true); err != nil {
		errs = append(errs, fmt.Errorf("screenshot: %w", err))
	} else {
		out.Screenshot = png
	}

	html := stem + ".html"
	content, err := tab.Content()
	if err == nil {
		err = os.WriteFile(html, []byte(content), 0o644)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("page html: %w", err))
	} else {
		out.HTML = html
	}

	return out, errors.Join(errs...)
}

// CaptureOnFailure captures tab when runErr is a failure and logs where the
// evidence went. Capture problems are logged, never returned, so they cannot
// mask runErr.
func (c *Capturer) CaptureOnFailure(tab browser.Tab, name string, runErr error) Capture {
	if runErr == nil {
		return Capture{}
	}
	out, err := c.Capture(tab, name)
	fields := []zap.Field{
		zap.String("scenario", name),
		zap.String("url", tab.URL()),
		zap.String("screenshot", out.Screenshot),
		zap.String("html", out.HTML),
		zap.NamedError("failure", runErr),
	}
	if err != nil {
		c.log.Warn("failure capture incomplete", append(fields, zap.Error(err))...)
		return out
	}
	c.log.Info("failure captured", fields...)
	return out
}
