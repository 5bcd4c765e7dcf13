package rolimons

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserRenderer renders pages in headless Chrome. One allocator is shared;
// each call gets its own tab.
type BrowserRenderer struct {
	allocCtx     context.Context
	cancel       context.CancelFunc
	timeout      time.Duration
	waitSelector string
	captureWait  string
	logger       *slog.Logger
}

type BrowserConfig struct {
	UserAgent string
	Timeout   time.Duration
	// WaitSelector is awaited before reading the page, e.g. ".mix_item".
	WaitSelector string
	// CaptureWaitSelector is awaited before a screenshot. Empty waits for
	// the load event only.
	CaptureWaitSelector string
}

func NewBrowserRenderer(cfg BrowserConfig, logger *slog.Logger) *BrowserRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserRenderer{
		allocCtx:     allocCtx,
		cancel:       cancel,
		timeout:      cfg.Timeout,
		waitSelector: cfg.WaitSelector,
		captureWait:  cfg.CaptureWaitSelector,
		logger:       logger.With("component", "browser"),
	}
}

func (b *BrowserRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	var html string
	err := b.run(ctx, pageURL, b.waitSelector, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return html, nil
}

// Capture takes a full-page PNG screenshot of pageURL.
func (b *BrowserRenderer) Capture(ctx context.Context, pageURL string) ([]byte, error) {
	var buf []byte
	// chromedp encodes PNG only at quality 100, JPEG otherwise.
	if err := b.run(ctx, pageURL, b.captureWait, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

func (b *BrowserRenderer) run(ctx context.Context, pageURL, waitSelector string, action chromedp.Action) error {
	tabCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	actions := []chromedp.Action{chromedp.Navigate(pageURL)}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitVisible(waitSelector, chromedp.ByQuery))
	}
	actions = append(actions, action)

	start := time.Now()
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return err
	}
	b.logger.Debug("page rendered", "url", pageURL, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Close shuts the browser down.
func (b *BrowserRenderer) Close() {
	b.cancel()
}
