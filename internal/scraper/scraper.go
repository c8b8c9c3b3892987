package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/AndrewHUNGNguyen/devx-events/internal/config"
	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
	"github.com/AndrewHUNGNguyen/devx-events/internal/logging"
	"github.com/AndrewHUNGNguyen/devx-events/internal/timeline"
)

// navRetries bounds navigation retry attempts per page.
const navRetries = 2

// dateContentExpr is truthy once the page body shows date- or time-looking
// text, the signal that the event header has hydrated.
const dateContentExpr = `/Sunday|Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|January|February|March|April|May|June|July|August|September|October|November|December/.test(document.body.textContent || "") || /\d{1,2}:\d{2}\s*(AM|PM)/i.test(document.body.textContent || "")`

// Scraper runs extraction against a live browser.
type Scraper struct {
	cfg     *config.Config
	browser *Browser
	log     *zap.Logger
}

// New wires a scraper to a launched browser.
func New(cfg *config.Config, b *Browser) *Scraper {
	return &Scraper{cfg: cfg, browser: b, log: logging.L()}
}

// navigate loads a URL in the given tab, retrying with exponential backoff.
func (s *Scraper) navigate(ctx context.Context, pageURL string) error {
	op := func() error {
		navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
		defer cancel()
		return chromedp.Run(navCtx, chromedp.Navigate(pageURL))
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), navRetries), ctx)
	return backoff.Retry(op, policy)
}

// outerHTML captures the rendered document.
func (s *Scraper) outerHTML(ctx context.Context) (*goquery.Document, error) {
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("capturing page html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page html: %w", err)
	}
	return doc, nil
}

// waitForEventContent waits, best-effort, for the heading and for
// date-bearing text to hydrate. Timeouts are tolerated: a partially
// rendered page still goes through extraction, which has its own
// fallbacks.
func (s *Scraper) waitForEventContent(ctx context.Context) {
	headCtx, cancel := context.WithTimeout(ctx, s.cfg.SelectorTimeout)
	defer cancel()
	_ = chromedp.Run(headCtx, chromedp.WaitReady("h1", chromedp.ByQuery))

	var hydrated bool
	pollCtx, cancelPoll := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPoll()
	_ = chromedp.Run(pollCtx, chromedp.Poll(dateContentExpr, &hydrated))

	// Give client-side rendering a moment to settle.
	_ = chromedp.Run(ctx, chromedp.Sleep(time.Second))
}

// ScrapeEventPage navigates to one event page and extracts its record.
// The timeline override, when present, replaces scraped dates
// unconditionally: the manage view is more authoritative than anything on
// the public page. A nil return with error means "could not refresh";
// callers fall back to their cached copy, never delete it.
func (s *Scraper) ScrapeEventPage(ctx context.Context, pageURL string, isPast bool, override *timeline.Entry) (*event.Event, error) {
	s.log.Info("scraping event page", zap.String("url", pageURL), zap.Bool("past", isPast))

	if err := s.navigate(ctx, pageURL); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", pageURL, err)
	}
	s.waitForEventContent(ctx)

	doc, err := s.outerHTML(ctx)
	if err != nil {
		return nil, err
	}

	evt, err := Extract(doc, pageURL, s.cfg.DefaultTimezone)
	if err != nil {
		return nil, err
	}

	applyOverride(evt, override)
	return evt, nil
}

// applyOverride replaces date/timezone fields from a timeline entry.
func applyOverride(evt *event.Event, o *timeline.Entry) {
	if o == nil {
		return
	}
	if !o.StartAt.IsZero() {
		evt.StartAt = o.StartAt
	}
	if !o.EndAt.IsZero() {
		evt.EndAt = o.EndAt
	}
	if o.Timezone != "" {
		evt.Timezone = o.Timezone
	}
}

// awaitPromise makes Evaluate wait for the expression's promise to settle.
func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
