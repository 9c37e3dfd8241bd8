package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/fix-tags/internal/dictionary"
)

const (
	DefaultBaseURL = "https://www.onixs.biz/fix-dictionary/%s/fields_by_tag.html"
	UserAgent      = "fix-tags/1.0 (github.com/pfrederiksen/fix-tags)"
)

// ErrNoTable is returned when a dictionary page contains no table element
var ErrNoTable = errors.New("no table found")

// HTTPError reports a non-2xx response for a dictionary page
type HTTPError struct {
	Version    string
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d (%s) for %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Scraper handles fetching and parsing FIX dictionary pages
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// Option configures a Scraper
type Option func(*Scraper)

// WithBaseURL sets the URL template. The first %s is replaced by the version;
// any other percent sequence is kept as is.
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.baseURL = baseURL
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.timeout = d
	}
}

// New creates a new Scraper instance. Each Scraper owns its HTTP client, built
// once all options have been applied.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		baseURL:   DefaultBaseURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = &http.Client{Timeout: s.timeout}
	return s
}

// URL returns the dictionary page URL for a version. The version is not
// validated; unknown versions simply 404 downstream.
func (s *Scraper) URL(version string) string {
	return strings.Replace(s.baseURL, "%s", version, 1)
}

// Scrape fetches the dictionary page for version and parses its field table
func (s *Scraper) Scrape(ctx context.Context, version string) (dictionary.VersionMapping, error) {
	pageURL := s.URL(version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Version: version, URL: pageURL, StatusCode: resp.StatusCode}
	}

	mapping, err := ParseMapping(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w on the page for FIX %s", err, version)
	}
	return mapping, nil
}

// ParseMapping extracts tag → field name pairs from the first table in r.
// The first row is treated as a header.
func ParseMapping(r io.Reader) (dictionary.VersionMapping, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	mapping := make(dictionary.VersionMapping)

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		if tag, name, ok := parseRow(row); ok {
			mapping[tag] = name
		}
	})

	return mapping, nil
}

// parseRow reads the first two cells of a row. ok is false for short rows and
// rows whose first cell is not an integer.
func parseRow(row *goquery.Selection) (tag int, name string, ok bool) {
	cells := row.Find("td, th")
	if cells.Length() < 2 {
		return 0, "", false
	}

	tagText := strings.TrimSpace(cells.Eq(0).Text())
	name = strings.TrimSpace(cells.Eq(1).Text())

	tag, err := strconv.Atoi(tagText)
	if err != nil {
		return 0, "", false
	}
	return tag, name, true
}
