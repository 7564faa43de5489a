// Package sentiment scores news items with Gemini. Scores are advisory
// context for the analyst; nothing in the valuation engine consumes them.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"google.golang.org/genai"

	"retail_valuation/pkg/core/news"
)

const defaultModel = "gemini-2.0-flash-exp"

const systemPrompt = `You score financial news headlines for a listed retail company.
Respond with JSON only: {"score": <float in [-1, 1]>, "label": "<negative|neutral|positive>"}.
Score -1 is maximally bearish for the stock, +1 maximally bullish, 0 irrelevant or neutral.`

// Score is one sentiment verdict for a news item.
type Score struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"` // clamped to [-1, 1]
	Label  string  `json:"label"`
	Model  string  `json:"model"`
}

// Scorer sends headlines to the Gemini API.
type Scorer struct {
	Model string
}

// NewScorer creates a scorer. Model may be empty to use the default.
func NewScorer(model string) *Scorer {
	if model == "" {
		model = defaultModel
	}
	return &Scorer{Model: model}
}

// ScoreItem scores a single news item.
func (s *Scorer) ScoreItem(ctx context.Context, item news.Item) (Score, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return Score{}, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return Score{}, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		},
	}

	prompt := fmt.Sprintf("Headline: %s\nSummary: %s", item.Title, item.Summary)
	result, err := client.Models.GenerateContent(ctx, s.Model, genai.Text(prompt), config)
	if err != nil {
		return Score{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	score, err := parseScore(result.Text())
	if err != nil {
		return Score{}, fmt.Errorf("failed to parse sentiment for %s: %w", item.ID, err)
	}
	score.ItemID = item.ID
	score.Model = s.Model
	return score, nil
}

// parseScore extracts the verdict from a model response. The response goes
// through json-repair first because models occasionally wrap JSON in fences
// or leave trailing commas.
func parseScore(raw string) (Score, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var parsed struct {
		Score float64 `json:"score"`
		Label string  `json:"label"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		repaired, repErr := jsonrepair.RepairJSON(cleaned)
		if repErr != nil {
			return Score{}, fmt.Errorf("response is not JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return Score{}, fmt.Errorf("repaired response is not a score object: %w", err)
		}
	}

	score := parsed.Score
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	label := strings.ToLower(strings.TrimSpace(parsed.Label))
	switch label {
	case "negative", "neutral", "positive":
	default:
		label = labelFor(score)
	}

	return Score{Score: score, Label: label}, nil
}

// labelFor maps a numeric score to a label when the model omits one.
func labelFor(score float64) string {
	switch {
	case score <= -0.2:
		return "negative"
	case score >= 0.2:
		return "positive"
	default:
		return "neutral"
	}
}
