// Package crawler implements the woodspider crawl engine.
//
// # Components
//
//   - Spider: processes one URL (normalize, filter, fetch, classify, expand)
//   - ResourceInterceptor: downloads documents, extracts their text and keeps
//     or purges them depending on keyword hits
//   - Session: selects candidates from the frontier and drives the Spider
//     under a link quota and request pacing
//   - Parser and HTTPFetcher: fetch an HTML page and return its title, body
//     text and outbound links
//   - Seeder: enqueues the anchors of a local HTML file
//
// # Politeness
//
//   - robots.txt is read once per site and session and honored for every link
//   - session-driven fetches are paced, per origin when several workers run
//   - every network operation carries its own timeout
//
// # Usage
//
//	spider := crawler.NewSpider(catalogs, fetcher, interceptor, policies,
//		crawler.WithShallowSearchDepth(4))
//	added, err := spider.ProcessURL(ctx, db, crawler.Request{URL: u, LinkID: model.NoLinkID, Level: 1})
package crawler
