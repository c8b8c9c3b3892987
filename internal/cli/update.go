package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndrewHUNGNguyen/devx-events/internal/crypto"
	"github.com/AndrewHUNGNguyen/devx-events/internal/event"
	"github.com/AndrewHUNGNguyen/devx-events/internal/logging"
	"github.com/AndrewHUNGNguyen/devx-events/internal/scraper"
	"github.com/AndrewHUNGNguyen/devx-events/internal/storage"
	"github.com/AndrewHUNGNguyen/devx-events/internal/timeline"
)

// runUpdate executes the full pipeline: load the persisted dataset, pull
// timeline overrides from the manage view, crawl upcoming and past
// listings, merge, sort, and persist. The dataset write is the single
// mutation of the run and happens only after everything else succeeded.
func runUpdate(cmd *cobra.Command, args []string) error {
	log := logging.L()
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	cookie, err := resolveCookie(store)
	if err != nil {
		return err
	}
	if cookie != "" {
		log.Info("using manage-calendar session cookie for timeline scraping")
	}

	existing, err := store.LoadEvents()
	if err != nil {
		return fmt.Errorf("loading existing events: %w", err)
	}
	if existing == nil {
		log.Warn("no existing events file found, a new dataset will be created",
			zap.String("path", store.EventsPath()))
	} else {
		log.Info("loaded existing events", zap.Int("count", len(existing)))
	}

	existingByID := make(map[string]*event.Event, len(existing))
	for _, evt := range existing {
		if evt != nil && evt.ID != "" {
			existingByID[evt.ID] = evt
		}
	}

	browser, err := scraper.NewBrowser(ctx, cfg)
	if err != nil {
		return err
	}
	defer browser.Close()

	sc := scraper.New(cfg, browser)

	overrides := collectTimelineOverrides(sc, cmd, cookie)

	upcoming, err := sc.ScrapeCalendar(ctx, scraper.FilterUpcoming, existingByID, overrides)
	if err != nil {
		return fmt.Errorf("scraping upcoming events: %w", err)
	}
	past, err := sc.ScrapeCalendar(ctx, scraper.FilterPast, existingByID, overrides)
	if err != nil {
		return fmt.Errorf("scraping past events: %w", err)
	}

	merged := event.Merge(existing, append(upcoming, past...))
	event.SortByStartDesc(merged)

	if err := store.SaveEvents(merged); err != nil {
		return err
	}

	now := time.Now()
	upcomingCount := 0
	for _, evt := range merged {
		if !evt.StartAt.Before(now) {
			upcomingCount++
		}
	}
	log.Info("dataset updated",
		zap.Int("total", len(merged)),
		zap.Int("upcoming", upcomingCount),
		zap.Int("past", len(merged)-upcomingCount),
		zap.String("path", store.EventsPath()))
	return nil
}

// collectTimelineOverrides gathers manage-view date corrections for both
// periods. Each period degrades independently to nothing on failure: the
// reconciler is an enhancement, and the crawl proceeds without it.
func collectTimelineOverrides(sc *scraper.Scraper, cmd *cobra.Command, cookie string) map[string]*timeline.Entry {
	log := logging.L()
	overrides := make(map[string]*timeline.Entry)
	if flagSkipTimeline {
		log.Info("timeline reconciliation skipped by flag")
		return overrides
	}

	for _, period := range []string{"upcoming", "past"} {
		entries, err := sc.ScrapeManageTimeline(cmd.Context(), period, cookie)
		if err != nil {
			log.Warn("manage timeline unavailable, continuing without overrides",
				zap.String("period", period), zap.Error(err))
			continue
		}
		// Later periods overwrite on ID collision, matching the order the
		// views are fetched in.
		for id, entry := range entries {
			overrides[id] = entry
		}
	}
	return overrides
}

// resolveCookie picks the session cookie from the flag, the environment,
// or the encrypted cache, in that order. When a passphrase is configured a
// freshly supplied cookie is cached encrypted for later runs.
func resolveCookie(store *storage.Store) (string, error) {
	log := logging.L()

	cookie := flagCookie
	if cookie == "" {
		cookie = os.Getenv(cookieEnv)
	}

	passphrase := flagPassphrase
	if passphrase == "" {
		passphrase = os.Getenv(passphraseEnv)
	}
	enc := crypto.New(passphrase)
	if enc == nil {
		return cookie, nil
	}

	if cookie != "" {
		sealed, err := enc.Encrypt(cookie)
		if err != nil {
			return "", fmt.Errorf("encrypting cookie: %w", err)
		}
		if err := store.SaveCookie(sealed); err != nil {
			return "", err
		}
		log.Info("session cookie cached encrypted for future runs")
		return cookie, nil
	}

	cached, err := store.LoadCookie()
	if err != nil {
		return "", err
	}
	if cached == "" {
		return "", nil
	}
	cookie, err = enc.Decrypt(cached)
	if err != nil {
		return "", fmt.Errorf("decrypting cached cookie: %w", err)
	}
	log.Info("using cached session cookie")
	return cookie, nil
}
