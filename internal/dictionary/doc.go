// Package dictionary provides the types shared by the scraper, run driver, and
// persister: per-version tag→field-name mappings and the set of them built by
// a single run.
package dictionary
