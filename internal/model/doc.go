// Package model defines the data structures shared by the crawler packages.
//
// This package contains the following main types:
//   - LinkRecord: one entry of the persisted crawl frontier
//   - Status: the exploration status of a link
//   - CrawlMode: the candidate selection mode of a crawl session
//   - Catalogs: the keyword and exclusion catalogs loaded once per process
//
// Models live in their own package because the store, the crawler and the
// report writers all use them.
package model
