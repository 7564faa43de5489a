package news

import (
	"encoding/json"
	"fmt"
	"net/http"

	"retail_valuation/pkg/core/news"
	"retail_valuation/pkg/core/sentiment"
	"retail_valuation/pkg/core/store"
)

var newsFilePath string
var sentimentCache *store.SentimentCache

// InitHandler wires the handler to the static news file and the sentiment
// cache. The cache may be backed by Postgres or by files; either way a miss
// just means an item is served without a score.
func InitHandler(path string, cache *store.SentimentCache) {
	newsFilePath = path
	sentimentCache = cache
}

// scoredItem is one news item with its cached sentiment attached.
type scoredItem struct {
	news.Item
	Sentiment *sentiment.Score `json:"sentiment,omitempty"`
}

// HandleNews serves the fetched news file with cached sentiment merged in.
func HandleNews(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := news.ReadFile(newsFilePath)
	if err != nil {
		// No fetched file yet is an empty feed, not a server error.
		fmt.Printf("[NEWS] No news file at %s: %v\n", newsFilePath, err)
		items = nil
	}

	out := make([]scoredItem, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	var scores map[string]sentiment.Score
	if sentimentCache != nil {
		scores, err = sentimentCache.GetAll(r.Context(), ids)
		if err != nil {
			fmt.Printf("[NEWS] Sentiment lookup failed: %v\n", err)
			scores = nil
		}
	}

	for _, it := range items {
		row := scoredItem{Item: it}
		if s, ok := scores[it.ID]; ok {
			sc := s
			row.Sentiment = &sc
		}
		out = append(out, row)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		fmt.Printf("[NEWS] Failed to encode response: %v\n", err)
	}
}
