package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
)

const huggingFaceURL = "https://api-inference.huggingface.co/models/"

// DayLogReader returns a user's nutrition entries for a date key ("" for today).
type DayLogReader interface {
	ListDay(ctx context.Context, userID uint, date string) ([]models.NutritionLog, error)
}

type RecService struct {
	logs    DayLogReader
	client  *http.Client
	baseURL string
	token   string
	model   string
}

func NewRecService(logs DayLogReader, token string) *RecService {
	return &RecService{
		logs:    logs,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: huggingFaceURL,
		token:   token,
		model:   "google/flan-t5-small",
	}
}

func buildRecPrompt(items []models.NutritionLog) string {
	var sb strings.Builder
	sb.WriteString("Today's food log:\n")
	if len(items) == 0 {
		sb.WriteString("- (nothing logged yet)\n")
	} else {
		for _, it := range items {
			fmt.Fprintf(&sb, "- %s: %.0fg, %.0f kcal, %.0fg protein, %.0fg sugar, %.0fmg sodium\n",
				it.Name, it.ServingSizeG, it.Calories, it.ProteinG, it.SugarG, it.SodiumMg)
		}
	}
	sb.WriteString("\nSuggest 3-5 healthy, practical adjustments or additions focusing on balance, fiber, and reduced added sugars/sodium. Return plain bullet points.")
	return sb.String()
}

// splitBullets turns generated text into one suggestion per line.
func splitBullets(text string) []string {
	var recs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "-•* \t")
		if line != "" {
			recs = append(recs, line)
		}
	}
	return recs
}

// GetRecs summarizes today's intake and asks the model for suggestions.
func (r *RecService) GetRecs(ctx context.Context, userID uint) ([]string, error) {
	if r.token == "" {
		return nil, unavailable("HUGGINGFACE_TOKEN not set")
	}

	items, err := r.logs.ListDay(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("db error fetching nutrition logs: %w", err)
	}

	b, _ := json.Marshal(map[string]any{
		"inputs": buildRecPrompt(items),
		"parameters": map[string]any{
			"max_new_tokens": 128,
			"temperature":    0.2,
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+r.model, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
	// load cold models instead of answering "loading"
	req.Header.Set("x-wait-for-model", "true")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, upstreamErr("hf request error: %v", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstreamErr("read hf response error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var hfErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBytes, &hfErr) == nil && hfErr.Error != "" {
			return nil, upstreamErr("hf api error (%d): %s", resp.StatusCode, hfErr.Error)
		}
		return nil, upstreamErr("hf api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var hfOut []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBytes, &hfOut); err != nil {
		preview := string(respBytes)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, upstreamErr("decode hf response error: %v | body: %s", err, preview)
	}
	if len(hfOut) == 0 || strings.TrimSpace(hfOut[0].GeneratedText) == "" {
		return nil, upstreamErr("empty recommendations from hf")
	}
	return splitBullets(hfOut[0].GeneratedText), nil
}
