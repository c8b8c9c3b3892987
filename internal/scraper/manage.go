package scraper

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
	"github.com/AndrewHUNGNguyen/devx-events/internal/timeline"
)

// ParseManageTimeline reads every anchor's enclosing container text on a
// manage-calendar page and parses it into timeline entries keyed by event
// ID. The first successful parse for an ID wins; later occurrences of the
// same ID never overwrite it.
func ParseManageTimeline(doc *goquery.Document) map[string]*timeline.Entry {
	entries := make(map[string]*timeline.Entry)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		id := event.ExtractID(href)
		if id == "" {
			return
		}
		if _, taken := entries[id]; taken {
			return
		}

		container := link.Closest("article")
		if container.Length() == 0 {
			container = link.Closest("div")
		}
		if container.Length() == 0 {
			container = link
		}

		if entry := timeline.Parse(container.Text()); entry != nil {
			entries[id] = entry
		}
	})

	return entries
}

// ScrapeManageTimeline fetches the authenticated manage-calendar view for
// one period and returns date overrides keyed by event ID. The cookie, when
// non-empty, is attached to every request from the tab. Errors here are
// per-phase: the caller logs and degrades to an empty map, because timeline
// reconciliation is an enhancement, never a dependency of the crawl.
func (s *Scraper) ScrapeManageTimeline(ctx context.Context, period string, cookie string) (map[string]*timeline.Entry, error) {
	pageURL := fmt.Sprintf("%s?period=%s", s.cfg.ManageURL, url.QueryEscape(period))
	s.log.Info("fetching manage timeline", zap.String("period", period), zap.String("url", pageURL))

	tabCtx, cancel := s.browser.NewTab()
	defer cancel()

	if cookie != "" {
		err := chromedp.Run(tabCtx,
			network.Enable(),
			network.SetExtraHTTPHeaders(network.Headers{"Cookie": cookie}),
		)
		if err != nil {
			return nil, fmt.Errorf("attaching session cookie: %w", err)
		}
	}

	if err := s.navigate(tabCtx, pageURL); err != nil {
		return nil, fmt.Errorf("navigating to manage view: %w", err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, s.cfg.SelectorTimeout)
	_ = chromedp.Run(waitCtx, chromedp.WaitReady("a[href]", chromedp.ByQuery))
	cancelWait()

	doc, err := s.outerHTML(tabCtx)
	if err != nil {
		return nil, err
	}

	entries := ParseManageTimeline(doc)
	if len(entries) == 0 {
		s.log.Warn("no timeline entries on manage page; it may require authentication",
			zap.String("period", period))
	} else {
		s.log.Info("collected timeline entries",
			zap.Int("count", len(entries)), zap.String("period", period))
	}
	return entries, nil
}
