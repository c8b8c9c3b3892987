package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
	"github.com/AndrewHUNGNguyen/devx-events/internal/timeline"
)

// Filter selects which calendar listing to crawl.
type Filter string

const (
	FilterUpcoming Filter = "upcoming"
	FilterPast     Filter = "past"
)

// pastButtonXPath matches a button whose visible text contains "past" in
// any casing; translate() only needs to fold the letters of the needle.
const pastButtonXPath = `//button[contains(translate(., "PAST", "past"), "past")]`

// autoScrollJS scrolls the page in small steps on a timer until the full
// scroll height or the absolute cap (%d pixels) is reached, triggering
// lazy-loaded calendar entries.
const autoScrollJS = `new Promise((resolve) => {
	let total = 0;
	const distance = 100;
	const timer = setInterval(() => {
		const height = document.body.scrollHeight;
		window.scrollBy(0, distance);
		total += distance;
		if (total >= height || total > %d) {
			clearInterval(timer);
			resolve(true);
		}
	}, 100);
})`

var (
	evtLinkRe  = regexp.MustCompile(`(?i)/evt-[a-z0-9]+`)
	slugLinkRe = regexp.MustCompile(`(?i)/[a-z0-9]{8,12}$`)
)

// CollectEventLinks gathers candidate event-page URLs from a calendar
// document. Anchors count when they carry an explicit /evt- segment or end
// in an event-length slug, minus the calendar's own path and known
// non-event paths. Tracking-parameterized links are dropped. Order follows
// first appearance; duplicates collapse.
func CollectEventLinks(doc *goquery.Document, base *url.URL) []string {
	exclusions := []string{"/discover", "/signin"}
	if base.Path != "" && base.Path != "/" {
		exclusions = append(exclusions, base.Path)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}

		candidate := evtLinkRe.MatchString(href)
		if !candidate && slugLinkRe.MatchString(href) {
			excluded := false
			for _, path := range exclusions {
				if strings.Contains(href, path) {
					excluded = true
					break
				}
			}
			candidate = !excluded
		}
		if !candidate {
			return
		}

		full := href
		if !strings.HasPrefix(href, "http") {
			full = base.Scheme + "://" + base.Host + href
		}
		if strings.Contains(full, "?k=") || strings.Contains(full, "?e=") {
			return
		}
		if !seen[full] {
			seen[full] = true
			links = append(links, full)
		}
	})

	return links
}

// ScrapeCalendar crawls the public calendar listing under the given filter
// and extracts every discovered event page. Per-page failures keep the
// cached copy; successes are shallow-merged over it. A fixed delay
// separates page visits to stay under the host's rate limits.
func (s *Scraper) ScrapeCalendar(ctx context.Context, filter Filter, existing map[string]*event.Event, overrides map[string]*timeline.Entry) ([]*event.Event, error) {
	s.log.Info("scraping calendar",
		zap.String("filter", string(filter)), zap.String("url", s.cfg.CalendarURL))

	tabCtx := s.browser.Context()
	if err := s.navigate(tabCtx, s.cfg.CalendarURL); err != nil {
		return nil, fmt.Errorf("navigating to calendar: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(tabCtx, s.cfg.SelectorTimeout)
	_ = chromedp.Run(waitCtx, chromedp.WaitReady("h2", chromedp.ByQuery))
	cancel()

	if filter == FilterPast {
		s.clickPastFilter(tabCtx)
	}
	s.autoScroll(tabCtx)

	doc, err := s.outerHTML(tabCtx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(s.cfg.CalendarURL)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar url: %w", err)
	}

	links := CollectEventLinks(doc, base)
	s.log.Info("found event links", zap.Int("count", len(links)), zap.String("filter", string(filter)))

	var events []*event.Event
	for _, link := range links {
		id := event.ExtractID(link)
		var cached *event.Event
		var override *timeline.Entry
		if id != "" {
			cached = existing[id]
			override = overrides[id]
		}

		scraped, err := s.ScrapeEventPage(ctx, link, filter == FilterPast, override)
		if err != nil {
			s.log.Warn("event page failed, keeping cached copy",
				zap.String("url", link), zap.String("id", id), zap.Error(err))
			if cached != nil {
				events = append(events, cached)
			}
			continue
		}
		if scraped.ID == "" && id != "" {
			scraped.ID = id
		}
		events = append(events, event.Overlay(cached, scraped))

		select {
		case <-ctx.Done():
			return events, ctx.Err()
		case <-time.After(s.cfg.RequestDelay):
		}
	}

	return events, nil
}

// clickPastFilter attempts to switch the listing to past events. The button
// is located by fuzzy text match and the click is best-effort: when the UI
// has changed, the crawl proceeds on the default view.
func (s *Scraper) clickPastFilter(ctx context.Context) {
	clickCtx, cancel := context.WithTimeout(ctx, s.cfg.SelectorTimeout)
	defer cancel()
	err := chromedp.Run(clickCtx,
		chromedp.Click(pastButtonXPath),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		s.log.Warn("could not click past filter, continuing with default view", zap.Error(err))
	}
}

// autoScroll nudges lazy-loaded entries into the DOM.
func (s *Scraper) autoScroll(ctx context.Context) {
	var done bool
	scrollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	js := fmt.Sprintf(autoScrollJS, s.cfg.ScrollLimit)
	if err := chromedp.Run(scrollCtx, chromedp.Evaluate(js, &done, awaitPromise)); err != nil {
		s.log.Warn("auto-scroll failed", zap.Error(err))
	}
}
