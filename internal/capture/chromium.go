package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "storecal/internal/log"
)

// Default capture parameters for the calendar page.
const (
	DefaultWidth      = 1200
	DefaultHeight     = 900
	DefaultTimeoutSec = 30
)

// ReadySelector matches the page root once it has rendered.
const ReadySelector = `[data-ready="true"]`

var (
	ErrNoURL        = errors.New("capture: URL is required")
	ErrNoOutputPath = errors.New("capture: OutputPath is required")
)

// CaptureOptions defines parameters for a Chromium-based screenshot capture.
type CaptureOptions struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar?month=2024-03".
	URL string

	// OutputPath is where the PNG screenshot is written.
	OutputPath string

	// Viewport in pixels. Zero means DefaultWidth / DefaultHeight.
	Width  int
	Height int

	// Timeout bounds the entire capture. Zero means DefaultTimeoutSec.
	Timeout time.Duration
}

// normalize validates opts and fills in defaults.
func (o CaptureOptions) normalize() (CaptureOptions, error) {
	if o.URL == "" {
		return o, ErrNoURL
	}
	if o.OutputPath == "" {
		return o, ErrNoOutputPath
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return o, nil
}

// CapturePNG launches a headless Chromium via chromedp, navigates to
// opts.URL, waits for ReadySelector to be visible and writes a full-page
// PNG screenshot to opts.OutputPath.
func CapturePNG(parentCtx context.Context, opts CaptureOptions) error {
	opts, err := opts.normalize()
	if err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("snapshot written",
		"path", opts.OutputPath,
		"bytes", len(png),
		"width", opts.Width,
		"height", opts.Height,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}
