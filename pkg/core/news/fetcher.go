package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// userAgent identifies the fetcher to publishers.
const userAgent = "retail-valuation-newsfetch/1.0"

const fetchTimeout = 20 * time.Second

// Fetcher downloads and parses publisher feeds.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// FetchFeed downloads one feed and returns its raw (un-normalized) items.
func (f *Fetcher) FetchFeed(ctx context.Context, feed Feed) ([]Item, error) {
	body, err := f.fetch(ctx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", feed.Name, err)
	}

	switch feed.Kind {
	case FeedJSON:
		return parseJSONFeed(feed, body)
	case FeedHTML:
		return parseHTMLFeed(feed, body)
	default:
		return nil, fmt.Errorf("unknown feed kind %q for %s", feed.Kind, feed.Name)
	}
}

// FetchAll runs every feed and concatenates the survivors; a broken feed is
// logged and skipped, never fatal for the batch.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []Feed) []Item {
	var all []Item
	for _, feed := range feeds {
		items, err := f.FetchFeed(ctx, feed)
		if err != nil {
			fmt.Printf("[NEWS] %v\n", err)
			continue
		}
		fmt.Printf("[NEWS] %s: %d items\n", feed.Name, len(items))
		all = append(all, items...)
	}
	return Normalize(all)
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parseJSONFeed reads items out of a JSON payload using the feed's gjson
// paths. The payload goes through DecodeFeedJSON first because publisher
// endpoints are not reliably well-formed.
func parseJSONFeed(feed Feed, body string) ([]Item, error) {
	decoded, err := DecodeFeedJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", feed.Name, err)
	}

	rows := gjson.Get(decoded, feed.ItemsPath)
	if !rows.Exists() {
		return nil, fmt.Errorf("%s: items path %q not found", feed.Name, feed.ItemsPath)
	}

	var items []Item
	rows.ForEach(func(_, row gjson.Result) bool {
		url := row.Get(feed.LinkPath).String()
		items = append(items, Item{
			ID:          ItemID(url),
			Title:       row.Get(feed.TitlePath).String(),
			URL:         url,
			Source:      feed.Name,
			Summary:     row.Get(feed.SummaryPath).String(),
			PublishedAt: ParseTime(row.Get(feed.TimePath).String()),
		})
		return true
	})
	return items, nil
}

// parseHTMLFeed reads items out of a listing page using the feed's CSS
// selectors.
func parseHTMLFeed(feed Feed, body string) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse HTML: %w", feed.Name, err)
	}

	var items []Item
	doc.Find(feed.ItemSelector).Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(feed.LinkSelector).First()
		href, _ := link.Attr("href")
		href = absoluteURL(feed.URL, href)

		title := strings.TrimSpace(sel.Find(feed.TitleSelector).First().Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}

		items = append(items, Item{
			ID:          ItemID(href),
			Title:       title,
			URL:         href,
			Source:      feed.Name,
			Summary:     strings.TrimSpace(sel.Find(feed.SummarySelector).First().Text()),
			PublishedAt: ParseTime(sel.Find(feed.TimeSelector).First().Text()),
		})
	})
	return items, nil
}

// absoluteURL resolves a relative href against the feed's page URL.
func absoluteURL(pageURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := pageURL
	if idx := strings.Index(base, "/"); idx >= 0 {
		if schemeEnd := strings.Index(base, "://"); schemeEnd >= 0 {
			if hostEnd := strings.Index(base[schemeEnd+3:], "/"); hostEnd >= 0 {
				base = base[:schemeEnd+3+hostEnd]
			}
		}
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

// WriteFile writes the normalized items to a static JSON file, creating the
// directory if needed.
func WriteFile(path string, items []Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal news items: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create news dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write news file: %w", err)
	}
	return nil
}

// ReadFile loads a previously written news file.
func ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read news file: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse news file: %w", err)
	}
	return items, nil
}
