package store

import (
	"context"
	"testing"

	"retail_valuation/pkg/core/sentiment"
)

// Tests run against the file fallback; DB behavior needs a live Postgres.

func TestSentimentCacheFileFallback(t *testing.T) {
	dir := t.TempDir()
	cache := NewSentimentCache(nil, dir)
	ctx := context.Background()

	// Miss before save.
	got, err := cache.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected a miss, got %+v", got)
	}
	if cache.Exists(ctx, "abc123") {
		t.Error("Expected Exists false before save")
	}

	score := sentiment.Score{ItemID: "abc123", Score: 0.6, Label: "positive", Model: "gemini-2.0-flash-exp"}
	if err := cache.Save(ctx, score); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err = cache.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get failed after save: %v", err)
	}
	if got == nil {
		t.Fatal("Expected a hit after save")
	}
	if got.Score != 0.6 || got.Label != "positive" {
		t.Errorf("Round-tripped score mismatch: %+v", got)
	}
	if !cache.Exists(ctx, "abc123") {
		t.Error("Expected Exists true after save")
	}

	// Upsert overwrites.
	score.Score = -0.2
	score.Label = "negative"
	if err := cache.Save(ctx, score); err != nil {
		t.Fatalf("Save (upsert) failed: %v", err)
	}
	got, _ = cache.Get(ctx, "abc123")
	if got == nil || got.Score != -0.2 {
		t.Errorf("Expected upserted score -0.2, got %+v", got)
	}
}

func TestSentimentCacheGetAll(t *testing.T) {
	dir := t.TempDir()
	cache := NewSentimentCache(nil, dir)
	ctx := context.Background()

	if err := cache.Save(ctx, sentiment.Score{ItemID: "a", Score: 0.3, Label: "positive"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Save(ctx, sentiment.Score{ItemID: "b", Score: -0.5, Label: "negative"}); err != nil {
		t.Fatal(err)
	}

	scores, err := cache.GetAll(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("Expected 2 cached scores, got %d", len(scores))
	}
	if scores["a"].Score != 0.3 || scores["b"].Label != "negative" {
		t.Errorf("GetAll contents mismatch: %+v", scores)
	}
	if _, ok := scores["missing"]; ok {
		t.Error("Expected missing ID absent from result")
	}
}

func TestSentimentCacheRejectsEmptyID(t *testing.T) {
	cache := NewSentimentCache(nil, t.TempDir())
	if err := cache.Save(context.Background(), sentiment.Score{Score: 0.1}); err == nil {
		t.Error("Expected an error for a score with no item ID")
	}
}
