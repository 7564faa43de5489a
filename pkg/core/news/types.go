// Package news fetches company news from publisher feeds and normalizes the
// items into a static JSON file. It is a peripheral of the valuation core:
// the engine never reads news, the API layer only serves the file back with
// cached sentiment scores attached.
package news

import "time"

// Item is one normalized news-feed entry.
type Item struct {
	ID          string    `json:"id"` // stable hash of the URL
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// FeedKind selects the parser for one source.
type FeedKind string

const (
	FeedHTML FeedKind = "html"
	FeedJSON FeedKind = "json"
)

// Feed describes one publisher source. HTML feeds are parsed with CSS
// selectors; JSON feeds with gjson paths, so a new source is config, not
// code.
type Feed struct {
	Name string   `yaml:"name" json:"name"`
	URL  string   `yaml:"url" json:"url"`
	Kind FeedKind `yaml:"kind" json:"kind"`

	// HTML selectors.
	ItemSelector    string `yaml:"item_selector,omitempty" json:"item_selector,omitempty"`
	TitleSelector   string `yaml:"title_selector,omitempty" json:"title_selector,omitempty"`
	LinkSelector    string `yaml:"link_selector,omitempty" json:"link_selector,omitempty"`
	SummarySelector string `yaml:"summary_selector,omitempty" json:"summary_selector,omitempty"`
	TimeSelector    string `yaml:"time_selector,omitempty" json:"time_selector,omitempty"`

	// JSON paths.
	ItemsPath   string `yaml:"items_path,omitempty" json:"items_path,omitempty"`
	TitlePath   string `yaml:"title_path,omitempty" json:"title_path,omitempty"`
	LinkPath    string `yaml:"link_path,omitempty" json:"link_path,omitempty"`
	SummaryPath string `yaml:"summary_path,omitempty" json:"summary_path,omitempty"`
	TimePath    string `yaml:"time_path,omitempty" json:"time_path,omitempty"`
}
