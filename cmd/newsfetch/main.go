// Command newsfetch pulls the configured publisher feeds, writes the
// normalized items to the static news file, and scores new items with Gemini
// when an API key is configured.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"retail_valuation/pkg/core/news"
	"retail_valuation/pkg/core/sentiment"
	"retail_valuation/pkg/core/store"
)

var (
	flagFeeds  string
	flagOutput string
	flagModel  string
	flagScore  bool
)

type feedsConfig struct {
	Feeds []news.Feed `yaml:"feeds"`
}

func main() {
	root := &cobra.Command{
		Use:   "newsfetch",
		Short: "Fetch publisher feeds into the static news file",
		RunE:  run,
	}

	root.Flags().StringVar(&flagFeeds, "feeds", "config/feeds.yaml", "feeds config file")
	root.Flags().StringVar(&flagOutput, "output", "data/news.json", "output news file")
	root.Flags().StringVar(&flagModel, "model", "", "Gemini model for sentiment scoring")
	root.Flags().BoolVar(&flagScore, "score", true, "score new items when GEMINI_API_KEY is set")

	if err := root.Execute(); err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	godotenv.Load()
	ctx := context.Background()

	data, err := os.ReadFile(flagFeeds)
	if err != nil {
		return fmt.Errorf("failed to read feeds config: %w", err)
	}
	var cfg feedsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse feeds config: %w", err)
	}
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("no feeds configured in %s", flagFeeds)
	}

	fetcher := news.NewFetcher()
	items := fetcher.FetchAll(ctx, cfg.Feeds)
	fmt.Printf("[NEWS] %d items after normalization\n", len(items))

	if err := news.WriteFile(flagOutput, items); err != nil {
		return err
	}
	fmt.Printf("[NEWS] Wrote %s\n", flagOutput)

	if flagScore && os.Getenv("GEMINI_API_KEY") != "" {
		scoreItems(ctx, items)
	}
	return nil
}

// scoreItems scores items that have no cached sentiment yet. Scoring is best
// effort; a failed item is logged and skipped.
func scoreItems(ctx context.Context, items []news.Item) {
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Database unavailable, using file cache: %v\n", err)
	}
	defer store.Close()

	cache := store.NewSentimentCache(store.GetPool(), "")
	scorer := sentiment.NewScorer(flagModel)

	scored := 0
	for _, item := range items {
		if cache.Exists(ctx, item.ID) {
			continue
		}
		score, err := scorer.ScoreItem(ctx, item)
		if err != nil {
			fmt.Printf("[SENTIMENT] %s: %v\n", item.ID, err)
			continue
		}
		if err := cache.Save(ctx, score); err != nil {
			fmt.Printf("[SENTIMENT] Failed to cache %s: %v\n", item.ID, err)
			continue
		}
		scored++
	}
	fmt.Printf("[SENTIMENT] Scored %d new items\n", scored)
}
