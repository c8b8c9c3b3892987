// Package scraper drives a headless browser against the public event
// calendar, individual event pages, and the authenticated manage-calendar
// view, and extracts structured event records from the rendered markup.
//
// There is no documented API for this data, so the DOM is a soft contract.
// Extraction is layered for robustness: structured data (JSON-LD blocks and
// meta tags) first, DOM text heuristics second, synthesized defaults last.
// Navigation and element waits are best-effort and bounded by timeouts; a
// failure on one page never aborts the run. All parsing happens over the
// captured page HTML with goquery, so everything below the browser boundary
// is testable against fixtures.
package scraper
