// Package trending provides the "trending now" list shown on every page.
//
// Exactly one source is active per build: GA4 analytics, the legacy PHP
// page, or none.
package trending
