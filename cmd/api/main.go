package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	newsapi "retail_valuation/pkg/api/news"
	"retail_valuation/pkg/api/valuation"
	"retail_valuation/pkg/core/store"
)

const (
	assumptionsPath = "config/assumptions.yaml"
	scenariosPath   = "config/scenarios.hjson"
	newsFilePath    = "data/news.json"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Database is optional: without DATABASE_URL the sentiment cache falls
	// back to files and the valuation endpoints are unaffected.
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Database unavailable, using file cache: %v\n", err)
	}
	defer store.Close()

	// Valuation endpoints
	valuation.InitHandler(assumptionsPath, scenariosPath)
	http.HandleFunc("/api/valuation/report", valuation.HandleValuationReport)
	http.HandleFunc("/api/defaults", valuation.HandleDefaults)

	// News endpoint
	sentimentCache := store.NewSentimentCache(store.GetPool(), "")
	newsapi.InitHandler(newsFilePath, sentimentCache)
	http.HandleFunc("/api/news", newsapi.HandleNews)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/valuation/report")
	fmt.Println("  - GET  /api/defaults")
	fmt.Println("  - GET  /api/news")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
