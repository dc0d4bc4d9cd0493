package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/hotelwatch/internal/crawler"
	"github.com/ternarybob/hotelwatch/internal/httpclient"
	"github.com/ternarybob/hotelwatch/internal/models"
)

// maxQuotesPerFetch caps how many result cards one fetch extracts.
// Search pages list dozens of hotels; the first page's top entries are
// enough to track the market.
const maxQuotesPerFetch = 10

// selectorSet holds per-site CSS selectors with ordered fallbacks.
// Booking sites redesign their markup frequently, so each field tries
// several generations of selectors before giving up.
type selectorSet struct {
	card  []string
	name  []string
	price []string
	link  []string
}

// htmlAdapter is the shared fetch-and-parse harness behind every HTML
// site adapter. Site-specific behavior is confined to the URL builder
// and the selector table.
type htmlAdapter struct {
	site      models.SiteConfig
	buildURL  func(base string, req *models.SearchRequest) string
	selectors selectorSet
	logger    arbor.ILogger
}

func (a *htmlAdapter) SiteID() string {
	return a.site.ID
}

// Fetch performs one attempt: build the search URL, issue the request
// through the leased proxy with the hinted headers, play back the
// pacing interactions, then parse result cards out of the page.
func (a *htmlAdapter) Fetch(ctx context.Context, req *models.SearchRequest, proxy *models.Proxy, hints models.PacingHints) (*models.RawSiteResult, error) {
	searchURL := a.buildURL(a.site.BaseURL, req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s", crawler.ErrParse, a.site.ID)
	}

	httpReq.Header.Set("User-Agent", hints.UserAgent)
	httpReq.Header.Set("Accept-Language", hints.AcceptLanguage)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	client := httpclient.NewProxyClient(a.site.RequestTimeout, proxy)

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", crawler.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", crawler.ErrConnection, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%w: %s returned status %d", err, a.site.ID, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crawler.ErrParse, err)
	}

	// Dwell on the page the way a person skimming results would before
	// the quotes are read out.
	if err := playInteractions(ctx, hints); err != nil {
		return nil, fmt.Errorf("%w: %v", crawler.ErrTimeout, err)
	}

	result, err := a.parse(doc)
	if err != nil {
		return nil, err
	}

	a.logger.Debug().
		Str("site_id", a.site.ID).
		Str("request_id", req.ID).
		Int("quotes", len(result.Quotes)).
		Msg("Fetched search results")

	return result, nil
}

// parse extracts hotel quotes from a search results document. A page
// with no recognizable result cards is a parse failure; cards that
// individually fail to yield a name and price are skipped.
func (a *htmlAdapter) parse(doc *goquery.Document) (*models.RawSiteResult, error) {
	cards := selectFirst(doc, a.selectors.card)
	if cards == nil {
		return nil, fmt.Errorf("%w: no result cards matched on %s", crawler.ErrParse, a.site.ID)
	}

	result := &models.RawSiteResult{}

	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		if len(result.Quotes) >= maxQuotesPerFetch {
			return false
		}

		name := textFromSelectors(card, a.selectors.name)
		if name == "" {
			return true
		}

		priceText := textFromSelectors(card, a.selectors.price)
		price, currency, err := parsePrice(priceText)
		if err != nil {
			a.logger.Debug().
				Str("site_id", a.site.ID).
				Str("hotel", name).
				Err(err).
				Msg("Skipping card without a usable price")
			return true
		}

		quote := models.HotelQuote{
			HotelName: name,
			Price:     price,
			Currency:  currency,
		}
		if href := attrFromSelectors(card, a.selectors.link, "href"); href != "" {
			quote.DetailsURL = a.absoluteURL(href)
		}

		result.Quotes = append(result.Quotes, quote)
		return true
	})

	return result, nil
}

// classifyStatus maps HTTP status codes onto the fetch error taxonomy.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status == http.StatusProxyAuthRequired,
		status == http.StatusTooManyRequests:
		return crawler.ErrBlocked
	case status == http.StatusNotFound, status == http.StatusGone:
		return crawler.ErrNoResults
	case status == http.StatusRequestTimeout:
		return crawler.ErrTimeout
	case status >= 500:
		return crawler.ErrConnection
	default:
		return crawler.ErrConnection
	}
}

// playInteractions sleeps through the hinted pseudo-interaction pauses,
// bailing out as soon as the context is cancelled.
func playInteractions(ctx context.Context, hints models.PacingHints) error {
	for _, step := range hints.Interactions {
		if step.Pause <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step.Pause):
		}
	}
	return nil
}

// selectFirst returns the matches of the first selector that finds
// anything, or nil when none do.
func selectFirst(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// textFromSelectors returns the trimmed text of the first selector
// that matches within the selection.
func textFromSelectors(sel *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if found := sel.Find(selector); found.Length() > 0 {
			if text := strings.TrimSpace(found.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// attrFromSelectors returns the named attribute of the first selector
// that matches within the selection.
func attrFromSelectors(sel *goquery.Selection, selectors []string, attr string) string {
	for _, selector := range selectors {
		if found := sel.Find(selector); found.Length() > 0 {
			if val, exists := found.First().Attr(attr); exists {
				return strings.TrimSpace(val)
			}
		}
	}
	return ""
}

// absoluteURL resolves a card link against the site base URL.
func (a *htmlAdapter) absoluteURL(href string) string {
	base, err := url.Parse(a.site.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
