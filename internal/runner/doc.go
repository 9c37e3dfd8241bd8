// Package runner drives a scrape across a list of FIX versions.
//
// Versions are scraped one at a time, in order. A failure for one version is
// reported on the console and the run moves on; failed versions are simply
// absent from the returned mappings.
package runner
