package session

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/themizzi/storefront-e2e/internal/browser/browsertest"
)

func pageTab(t *testing.T) *browsertest.Tab {
	t.Helper()
	tab := browsertest.NewTab()
	require.NoError(t, tab.SetContent("http://shop.test/index.php?rt=checkout/cart", `<html><head><title>Cart</title></head><body><h1>Shopping Cart</h1></body></html>`))
	return tab
}

func TestSession_CloseRunsOnce(t *testing.T) {
	tab := pageTab(t)
	released := 0
	s := New("guest-checkout", tab, func() error {
		released++
		return nil
	})

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 1, released)
	assert.True(t, tab.Closed())
}

func TestSession_CloseReportsReleaseError(t *testing.T) {
	boom := errors.New("context gone")
	s := New("login", pageTab(t), func() error { return boom })

	assert.ErrorIs(t, s.Close(), boom)
	assert.ErrorIs(t, s.Close(), boom)
}

func TestCapturer_FileName(t *testing.T) {
	c := NewCapturer(t.TempDir(), nil)
	c.Now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 5, 0, time.UTC) }

	tests := []struct {
		name string
		want string
	}{
		{"guest-checkout", `^guest-checkout_20261015_093005_[0-9a-f]{8}$`},
		{"add to cart / shirt", `^add_to_cart_shirt_20261015_093005_[0-9a-f]{8}$`},
		{"???", `^capture_20261015_093005_[0-9a-f]{8}$`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.want), c.FileName(tt.name))
		})
	}

	assert.NotEqual(t, c.FileName("same"), c.FileName("same"))
}

func TestCapturer_WritesScreenshotAndHTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "captures")
	c := NewCapturer(dir, nil)

	out, err := c.Capture(pageTab(t), "update-quantity")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(out.Screenshot))
	assert.Equal(t, ".png", filepath.Ext(out.Screenshot))
	assert.Equal(t, ".html", filepath.Ext(out.HTML))

	png, err := os.ReadFile(out.Screenshot)
	require.NoError(t, err)
	assert.Contains(t, string(png), "rt=checkout/cart")

	html, err := os.ReadFile(out.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Shopping Cart</h1>")
}

func TestCapturer_CaptureOnFailure(t *testing.T) {
	t.Run("success captures nothing", func(t *testing.T) {
		dir := t.TempDir()
		c := NewCapturer(dir, nil)

		out := c.CaptureOnFailure(pageTab(t), "home-loads", nil)

		assert.Equal(t, Capture{}, out)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("failure is captured and logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		c := NewCapturer(t.TempDir(), zap.New(core))

		out := c.CaptureOnFailure(pageTab(t), "contact-us", errors.New("check enquiry sent: timed out"))

		assert.FileExists(t, out.Screenshot)
		assert.FileExists(t, out.HTML)
		entries := logs.FilterMessage("failure captured").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "contact-us", entries[0].ContextMap()["scenario"])
		assert.Equal(t, "http://shop.test/index.php?rt=checkout/cart", entries[0].ContextMap()["url"])
	})

	t.Run("capture problems are only logged", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))
		core, logs := observer.New(zapcore.InfoLevel)
		c := NewCapturer(filepath.Join(blocker, "captures"), zap.New(core))

		out := c.CaptureOnFailure(pageTab(t), "login", errors.New("boom"))

		assert.Equal(t, Capture{}, out)
		assert.Equal(t, 1, logs.FilterMessage("failure capture incomplete").Len())
	})
}
