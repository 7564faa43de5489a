package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"retail_valuation/pkg/core/sentiment"
)

// SentimentCache stores news sentiment scores keyed by news item ID.
// Hybrid: DB is primary when a pool is configured, otherwise a file-based
// cache so local runs work without Postgres.
type SentimentCache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewSentimentCache creates a cache. If pool is nil it falls back to files
// under dir; an empty dir defaults to .cache/news_sentiment.
func NewSentimentCache(pool *pgxpool.Pool, dir string) *SentimentCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "news_sentiment")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check SentimentCache dir: %v\n", err)
		}
	}
	return &SentimentCache{pool: pool, fileDir: dir}
}

// cacheEntry is the file-cache wrapper for one score.
type cacheEntry struct {
	ItemID   string          `json:"item_id"`
	Score    sentiment.Score `json:"score"`
	ScoredAt time.Time       `json:"scored_at"`
}

// Get retrieves a cached score by news item ID. A miss is (nil, nil).
func (c *SentimentCache) Get(ctx context.Context, itemID string) (*sentiment.Score, error) {
	if c.pool != nil {
		query := `
			SELECT score, label, model
			FROM news_sentiment
			WHERE item_id = $1
			LIMIT 1
		`
		var s sentiment.Score
		err := c.pool.QueryRow(ctx, query, itemID).Scan(&s.Score, &s.Label, &s.Model)
		if err != nil {
			return nil, nil // Cache miss
		}
		s.ItemID = itemID
		return &s, nil
	}

	if c.fileDir != "" {
		return c.loadFromFile(c.itemPath(itemID))
	}

	return nil, nil
}

// GetAll retrieves cached scores for a batch of item IDs. Missing IDs are
// simply absent from the result map.
func (c *SentimentCache) GetAll(ctx context.Context, itemIDs []string) (map[string]sentiment.Score, error) {
	out := make(map[string]sentiment.Score, len(itemIDs))
	for _, id := range itemIDs {
		s, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out[id] = *s
		}
	}
	return out, nil
}

// Save upserts one score.
func (c *SentimentCache) Save(ctx context.Context, score sentiment.Score) error {
	if score.ItemID == "" {
		return fmt.Errorf("sentiment score has no item ID")
	}

	if c.pool != nil {
		query := `
			INSERT INTO news_sentiment (item_id, score, label, model, scored_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (item_id)
			DO UPDATE SET
				score = EXCLUDED.score,
				label = EXCLUDED.label,
				model = EXCLUDED.model,
				scored_at = NOW()
		`
		if _, err := c.pool.Exec(ctx, query, score.ItemID, score.Score, score.Label, score.Model); err != nil {
			return fmt.Errorf("failed to save sentiment to db: %w", err)
		}
	}

	if c.fileDir != "" {
		entry := cacheEntry{ItemID: score.ItemID, Score: score, ScoredAt: time.Now()}
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sentiment entry: %w", err)
		}
		if err := os.WriteFile(c.itemPath(score.ItemID), data, 0644); err != nil {
			return fmt.Errorf("failed to save sentiment to file cache: %w", err)
		}
	}

	return nil
}

// Exists checks whether an item already has a cached score.
func (c *SentimentCache) Exists(ctx context.Context, itemID string) bool {
	if c.pool != nil {
		query := `SELECT 1 FROM news_sentiment WHERE item_id = $1 LIMIT 1`
		var exists int
		if err := c.pool.QueryRow(ctx, query, itemID).Scan(&exists); err == nil {
			return true
		}
	}

	if c.fileDir != "" {
		if _, err := os.Stat(c.itemPath(itemID)); err == nil {
			return true
		}
	}

	return false
}

func (c *SentimentCache) itemPath(itemID string) string {
	return filepath.Join(c.fileDir, itemID+".json")
}

func (c *SentimentCache) loadFromFile(path string) (*sentiment.Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil // Not found
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse sentiment cache file: %w", err)
	}
	return &entry.Score, nil
}
