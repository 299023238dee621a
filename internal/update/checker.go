package update

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/adamancini/badlock/internal/scrape"
)

var (
	// titleVersion matches a dotted version preceded by whitespace, as in
	// "Good Lock 2.2.04.50 by Samsung".
	titleVersion = regexp.MustCompile(`\s(\d+(?:\.\d+)+)`)

	errNoFeedItems   = errors.New("feed has no items")
	errNoTitleMatch  = errors.New("feed title has no version")
	errNoListingLink = errors.New("listing page has no version link")
	errNoVersionText = errors.New("detail page has no version")
)

const (
	listingLinkSelector = "div.list-row a.fontBlack"
	versionSelector     = ".appspec-value"
)

// MirrorChecker reads the latest version of a module from the APK mirror.
// It tries the module's RSS feed first and falls back to scraping the
// listing page.
type MirrorChecker struct {
	fetcher  scrape.Fetcher
	scraper  *scrape.MinVersionScraper
	timeouts Timeouts
	logger   *zap.Logger
}

// NewMirrorChecker creates a checker that fetches pages with fetcher.
func NewMirrorChecker(fetcher scrape.Fetcher, logger *zap.Logger) *MirrorChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MirrorChecker{
		fetcher:  fetcher,
		scraper:  scrape.NewMinVersionScraper(logger),
		timeouts: DefaultTimeouts(),
		logger:   logger,
	}
}

// WithTimeouts overrides the request timeouts. Zero values keep the
// defaults.
func (c *MirrorChecker) WithTimeouts(t Timeouts) *MirrorChecker {
	if t.Feed > 0 {
		c.timeouts.Feed = t.Feed
	}
	if t.Detail > 0 {
		c.timeouts.Detail = t.Detail
	}
	if t.Fallback > 0 {
		c.timeouts.Fallback = t.Fallback
	}
	return c
}

// FeedURL returns the RSS feed address for an info page.
func FeedURL(infoURL string) string {
	if !strings.HasSuffix(infoURL, "/") {
		infoURL += "/"
	}
	return infoURL + "feed/"
}

// Check looks up the latest version for infoURL.
//
// The returned Result is always usable. Pages that load but carry no
// version yield an empty Result and a nil error. The error is non-nil only
// when a fetch or parse failed and nothing could be determined; it then
// wraps the failures of both the feed and the fallback so callers can tell
// connectivity problems apart.
func (c *MirrorChecker) Check(ctx context.Context, infoURL string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("version check panicked",
				zap.String("url", infoURL),
				zap.Any("panic", r),
			)
			res, err = Result{}, fmt.Errorf("version check for %s panicked: %v", infoURL, r)
		}
	}()

	feedRes, feedErr := c.fromFeed(ctx, infoURL)
	if feedErr == nil {
		return feedRes, nil
	}
	c.logger.Debug("feed unusable, trying listing page",
		zap.String("url", infoURL),
		zap.Error(feedErr),
	)

	fallbackRes, fallbackErr := c.fromListing(ctx, infoURL)
	if fallbackErr == nil {
		return fallbackRes, nil
	}

	switch {
	case !feedRes.Empty():
		return feedRes, nil
	case !fallbackRes.Empty():
		return fallbackRes, nil
	case isParseMiss(feedErr) && isParseMiss(fallbackErr):
		c.logger.Debug("no version published",
			zap.String("url", infoURL),
			zap.NamedError("feed", feedErr),
			zap.NamedError("listing", fallbackErr),
		)
		return Result{}, nil
	}

	return Result{}, errors.Join(
		fmt.Errorf("feed: %w", feedErr),
		fmt.Errorf("listing: %w", fallbackErr),
	)
}

// fromFeed reads the first feed item. A nil error means a version was found.
func (c *MirrorChecker) fromFeed(ctx context.Context, infoURL string) (Result, error) {
	feedURL := FeedURL(infoURL)

	body, err := c.fetcher.Get(ctx, feedURL, c.timeouts.Feed)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch %s: %w", feedURL, err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", feedURL, err)
	}
	if len(feed.Items) == 0 {
		return Result{}, errNoFeedItems
	}

	item := feed.Items[0]
	res := Result{URL: strings.TrimSpace(item.Link)}
	if res.URL != "" {
		res.MinAndroid = c.minAndroid(ctx, res.URL, c.timeouts.Detail)
	}

	m := titleVersion.FindStringSubmatch(item.Title)
	if m == nil {
		return res, fmt.Errorf("%w: %q", errNoTitleMatch, item.Title)
	}
	res.Version = m[1]
	return res, nil
}

// fromListing scrapes the listing page and the newest detail page. A nil
// error means a version was found.
func (c *MirrorChecker) fromListing(ctx context.Context, infoURL string) (Result, error) {
	listing, err := c.fetcher.Document(ctx, infoURL, c.timeouts.Fallback)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch %s: %w", infoURL, err)
	}

	href, ok := listing.Find(listingLinkSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return Result{}, errNoListingLink
	}

	detailURL, err := resolveLink(listing, infoURL, href)
	if err != nil {
		return Result{}, err
	}

	res := Result{URL: detailURL}
	detail, err := c.fetcher.Document(ctx, detailURL, c.timeouts.Fallback)
	if err != nil {
		return res, fmt.Errorf("failed to fetch %s: %w", detailURL, err)
	}

	if v, ok := c.scraper.Scrape(detail); ok {
		res.MinAndroid = v
	}

	fields := strings.Fields(detail.Find(versionSelector).First().Text())
	if len(fields) == 0 {
		return res, errNoVersionText
	}
	res.Version = fields[0]
	return res, nil
}

// isParseMiss reports whether err means a page was read but held no version.
func isParseMiss(err error) bool {
	return errors.Is(err, errNoFeedItems) ||
		errors.Is(err, errNoTitleMatch) ||
		errors.Is(err, errNoListingLink) ||
		errors.Is(err, errNoVersionText)
}

// minAndroid fetches a detail page and scrapes it. Failures are logged and
// yield an empty string.
func (c *MirrorChecker) minAndroid(ctx context.Context, detailURL string, timeout time.Duration) string {
	doc, err := c.fetcher.Document(ctx, detailURL, timeout)
	if err != nil {
		c.logger.Debug("detail page unavailable",
			zap.String("url", detailURL),
			zap.Error(err),
		)
		return ""
	}
	v, _ := c.scraper.Scrape(doc)
	return v
}

func resolveLink(doc *goquery.Document, pageURL, href string) (string, error) {
	base := doc.Url
	if base == nil {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return "", fmt.Errorf("invalid page URL %s: %w", pageURL, err)
		}
		base = parsed
	}

	ref, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return ref.String(), nil
}
