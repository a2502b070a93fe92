package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	suggestTemperature = 0.2
)

var errOpenAIKeyMissing = errors.New("OPENAI_API_KEY not set")

var openAIHTTPClient = &http.Client{Timeout: 15 * time.Second}

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/foods/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// foodSuggestion is a proposed food profile. It is not saved; the client posts
// it to /api/foods after review. Confidence is 1-5.
type foodSuggestion struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand,omitempty"`
	ServingSizeG float64 `json:"serving_size_g"`
	Calories     float64 `json:"calories"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	FiberG       float64 `json:"fiber_g"`
	Confidence   int     `json:"confidence"`
}

const foodSystemPrompt = `You are a nutrition database assistant. Describe the food as a reference serving and return a JSON object with:
- "name" (string, cleaned up title case, no quantity)
- "brand" (string, empty unless a brand is named)
- "serving_size_g" (number, grams of one typical serving of the described food)
- "calories" (number, kcal in serving_size_g grams)
- "protein_g", "carbs_g", "fat_g", "fiber_g" (numbers, grams in serving_size_g grams)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// complete sends a chat completions request and returns the content of the
// first choice.
func (cfg openAIConfig) complete(ctx context.Context, messages []openAIMessage) (string, error) {
	if cfg.APIKey == "" {
		return "", errOpenAIKeyMissing
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	payload, err := json.Marshal(openAIRequest{
		Model:          model,
		Messages:       messages,
		Temperature:    suggestTemperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := openAIHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openai: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var completion struct {
		Choices []struct {
			Message openAIMessage `json:"message"`
		} `json:"choices"`
	}
	if errDecode := json.NewDecoder(resp.Body).Decode(&completion); errDecode != nil {
		return "", fmt.Errorf("openai: decode response: %w", errDecode)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return completion.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFood handles POST /api/foods/suggest. It asks OpenAI to turn a free
// text description into a food profile. Responds {"error": "unrecognized"}
// with 200 when the description is not a food.
func (h *Handler) suggestFood(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	content, err := h.openAI.complete(c.Request.Context(), []openAIMessage{
		{Role: "system", Content: foodSystemPrompt},
		{Role: "user", Content: req.Description},
	})
	if errors.Is(err, errOpenAIKeyMissing) {
		apiError(c, http.StatusServiceUnavailable, "food suggestions are not configured")
		return
	}
	if err != nil {
		log.WithError(err).Warn("suggest: openai request failed")
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}

	var parsed struct {
		foodSuggestion
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		log.WithError(err).Warn("suggest: unparseable openai response")
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}
	s := parsed.foodSuggestion
	if parsed.Error == "unrecognized" || strings.TrimSpace(s.Name) == "" || s.ServingSizeG <= 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	if s.Calories < 0 || s.ProteinG < 0 || s.CarbsG < 0 || s.FatG < 0 || s.FiberG < 0 {
		log.WithField("name", s.Name).Warn("suggest: negative nutrient values")
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, s)
}
