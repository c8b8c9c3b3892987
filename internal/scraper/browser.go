package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/AndrewHUNGNguyen/devx-events/internal/config"
)

// Browser owns a headless Chrome instance. One browser drives the whole
// run; tabs are opened per view but pages are visited strictly one at a
// time.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewBrowser launches Chrome. A launch failure is fatal to the run; there
// is nothing to degrade to without a browser.
func NewBrowser(ctx context.Context, cfg *config.Config) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser to actually start.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	return &Browser{ctx: browserCtx, cancel: cancel, allocCancel: allocCancel}, nil
}

// Context returns the root tab context.
func (b *Browser) Context() context.Context {
	return b.ctx
}

// NewTab opens a fresh tab sharing the browser instance.
func (b *Browser) NewTab() (context.Context, context.CancelFunc) {
	return chromedp.NewContext(b.ctx)
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
}
