// Package rolimons fetches trade-ad pages from the trading site.
package rolimons

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/retry"

	"trade_tracker/internal/domain"
)

const SourceName = "Rolimon's"

// Config holds site and HTTP settings.
type Config struct {
	BaseURL        string
	FeedPath       string
	ItemPath       string // fmt pattern with one %s for the item id
	UserAgent      string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Renderer returns the HTML of a page.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// StatusError is a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.URL)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Source fetches the trade feed and per-item trade pages.
type Source struct {
	renderer Renderer
	cfg      Config
	logger   *slog.Logger
}

func New(renderer Renderer, cfg Config, logger *slog.Logger) *Source {
	return &Source{
		renderer: renderer,
		cfg:      cfg,
		logger:   logger.With("source", SourceName),
	}
}

func (s *Source) FeedURL() string {
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + s.cfg.FeedPath
}

func (s *Source) ItemURL(itemID string) string {
	return strings.TrimSuffix(s.cfg.BaseURL, "/") + fmt.Sprintf(s.cfg.ItemPath, itemID)
}

// FetchFeed returns the markup of the global trade feed.
func (s *Source) FetchFeed(ctx context.Context) (string, error) {
	return s.fetch(ctx, s.FeedURL())
}

// FetchItemTrades returns the markup of one item's trade page.
func (s *Source) FetchItemTrades(ctx context.Context, itemID string) (string, error) {
	return s.fetch(ctx, s.ItemURL(itemID))
}

// ItemName reads the item title from its trade page. It returns "" when the
// page has no heading.
func (s *Source) ItemName(ctx context.Context, itemID string) (string, error) {
	markup, err := s.FetchItemTrades(ctx, itemID)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	return strings.Join(strings.Fields(doc.Find("h1").First().Text()), " "), nil
}

func (s *Source) fetch(ctx context.Context, pageURL string) (string, error) {
	start := time.Now()
	markup, err := s.renderer.Render(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrFetch, pageURL, err)
	}

	s.logger.Debug("page fetched",
		"url", pageURL,
		"bytes", len(markup),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return markup, nil
}

// HTTPRenderer fetches pages with plain GET requests and Chrome-like headers.
type HTTPRenderer struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

func NewHTTPRenderer(cfg Config, logger *slog.Logger) *HTTPRenderer {
	return &HTTPRenderer{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

func (r *HTTPRenderer) Render(ctx context.Context, pageURL string) (string, error) {
	var body string

	err := retry.Do(
		func() error {
			var err error
			body, err = r.get(ctx, pageURL)
			return err
		},
		retry.Attempts(uint(max(r.cfg.MaxAttempts, 1))),
		retry.Delay(r.cfg.InitialBackoff),
		retry.MaxDelay(r.cfg.MaxBackoff),
		retry.MaxJitter(r.cfg.InitialBackoff),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("request failed, retrying", "url", pageURL, "attempt", n+1, "error", err)
		}),
		retry.RetryIf(func(err error) bool {
			var status *StatusError
			if errors.As(err, &status) {
				return status.Retryable()
			}
			return true
		}),
	)
	if err != nil {
		return "", err
	}
	return body, nil
}

func (r *HTTPRenderer) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: pageURL, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}
