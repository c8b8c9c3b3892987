// Package event defines the canonical event record produced by the scraper
// pipeline and consumed by the rest of the site, along with ID derivation,
// location normalization, and the merge/dedup engine that folds freshly
// scraped events into the persisted dataset.
package event
