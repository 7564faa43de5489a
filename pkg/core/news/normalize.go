package news

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// ItemID derives a stable ID from the article URL, so re-fetching the same
// feed dedupes instead of duplicating.
func ItemID(url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:8])
}

// DecodeFeedJSON turns a publisher JSON payload into valid JSON. Feed
// endpoints in the wild send trailing commas, single quotes and comments, so
// the decode escalates: standard JSON, then repair, then Hjson.
func DecodeFeedJSON(raw string) (string, error) {
	var probe interface{}
	if err := json.Unmarshal([]byte(raw), &probe); err == nil {
		return raw, nil
	}

	if repaired, err := jsonrepair.RepairJSON(raw); err == nil {
		if err := json.Unmarshal([]byte(repaired), &probe); err == nil {
			return repaired, nil
		}
	}

	var result interface{}
	if err := hjson.Unmarshal([]byte(raw), &result); err == nil {
		out, err := json.Marshal(result)
		if err == nil {
			return string(out), nil
		}
	}

	return "", fmt.Errorf("feed payload is not recoverable JSON")
}

// CleanSummary strips outer markdown code fences, collapses whitespace and
// drops summaries that do not parse as markdown at all.
func CleanSummary(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")

	// Goldmark is very permissive; a nil document only happens for inputs
	// that are not text at all.
	parser := goldmark.DefaultParser()
	if doc := parser.Parse(text.NewReader([]byte(cleaned))); doc == nil {
		return ""
	}
	return cleaned
}

// timeLayouts are tried in order when a feed's timestamp is not RFC 3339.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02",
}

// ParseTime parses a feed timestamp, returning the zero time when no layout
// matches. Items without a usable time sort last rather than failing the
// whole feed.
func ParseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Normalize dedupes items by ID, cleans summaries, drops entries without a
// title or URL, and sorts newest first.
func Normalize(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.URL = strings.TrimSpace(it.URL)
		if it.Title == "" || it.URL == "" {
			continue
		}
		if it.ID == "" {
			it.ID = ItemID(it.URL)
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		it.Summary = CleanSummary(it.Summary)
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}
