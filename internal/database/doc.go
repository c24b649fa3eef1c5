// Package database provides the SQLite-backed frontier store for woodspider.
//
// The FrontierDB stores:
//   - The link table: every discovered URL with its exploration status
//   - Keyword hits linking explored links to catalog keywords
//   - The keyword, exclusion-site and exclusion-keyword catalogs
//   - A monotonic counter that hands out link identifiers
//   - The crawl-session journal
//
// Timestamps are stored as UTC text in "2006-01-02 15:04:05" form so that
// age comparisons can be done with plain string ordering in SQL.
//
// All statements run on a single connection. Identifier reservation,
// duplicate checks and upserts are performed inside transactions, so two
// workers can never store the same URL twice.
package database
