// Package ogimage renders Open Graph preview cards to PNG with headless Chrome.
package ogimage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Card dimensions recommended by the Open Graph consumers
const (
	Width  = 1200
	Height = 630
)

const defaultTimeout = 15 * time.Second

// ErrRenderTimeout is returned when Chrome does not finish in time
var ErrRenderTimeout = errors.New("og image rendering timed out")

// Renderer turns an HTML document into a PNG
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// ChromedpRenderer screenshots HTML using the Chrome DevTools Protocol
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. With a RemoteURL it attaches to a
// running browser; otherwise it launches one on first use.
func NewChromedpRenderer(cfg config.OGImageConfig, logger *zap.Logger) *ChromedpRenderer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	r := &ChromedpRenderer{timeout: timeout, logger: logger}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
		chromedp.WindowSize(Width, Height),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render loads html into a blank tab and captures the viewport as PNG
func (r *ChromedpRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("html content is empty")
	}

	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// Tie the tab to the request deadline
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var png []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(Width, Height),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.CaptureScreenshot(&png),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrRenderTimeout, r.timeout)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(png) == 0 {
		return nil, errors.New("generated image is empty")
	}

	r.logger.Debug("OG image rendered",
		zap.Int("bytes", len(png)),
		zap.Duration("duration", time.Since(started)))
	return png, nil
}

// Close shuts down the browser allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ Renderer = (*ChromedpRenderer)(nil)
