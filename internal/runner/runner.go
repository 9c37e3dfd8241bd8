package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/fix-tags/internal/dictionary"
	"github.com/pfrederiksen/fix-tags/internal/logger"
)

// DictionaryScraper fetches the mapping for a single version
type DictionaryScraper interface {
	Scrape(ctx context.Context, version string) (dictionary.VersionMapping, error)
}

// Runner scrapes versions sequentially and collects the successes
type Runner struct {
	scraper DictionaryScraper
	out     io.Writer
	log     *logger.Logger
	now     func() time.Time
}

// New creates a Runner that prints progress lines to out. A nil log discards
// diagnostics.
func New(s DictionaryScraper, out io.Writer, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{
		scraper: s,
		out:     out,
		log:     log,
		now:     time.Now,
	}
}

// Run scrapes each version in order. Errors never abort the run; once ctx is
// done, the remaining versions are reported as failed without a request.
func (r *Runner) Run(ctx context.Context, versions []string) dictionary.FixMappings {
	results := make(dictionary.FixMappings, len(versions))
	metrics := r.log.Metrics()

	for _, v := range versions {
		r.log.Debug("scraping dictionary", logger.Fields{"version": v})

		start := r.now()
		mapping, err := r.scrapeOne(ctx, v)
		metrics.RecordTiming("scrape.duration", r.now().Sub(start))

		if err != nil {
			metrics.IncrCounter("scrape.failure")
			r.log.Warn("scrape failed", logger.Fields{"version": v, "error": err.Error()})
			fmt.Fprintf(r.out, "Error scraping FIX %s: %v\n", v, err)
			continue
		}

		results[v] = mapping
		r.log.Debug("scraped dictionary", logger.Fields{"version": v, "entries": len(mapping)})
		metrics.IncrCounter("scrape.success")
		metrics.SetGauge("scrape.entries."+v, float64(len(mapping)))
		fmt.Fprintf(r.out, "Scraped FIX %s dictionary with %d entries.\n", v, len(mapping))
	}

	return results
}

func (r *Runner) scrapeOne(ctx context.Context, version string) (dictionary.VersionMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mapping, err := r.scraper.Scrape(ctx, version)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		mapping = dictionary.VersionMapping{}
	}
	return mapping, nil
}
