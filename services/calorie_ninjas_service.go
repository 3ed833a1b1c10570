package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const calorieNinjasURL = "https://api.calorieninjas.com/v1/nutrition"

// FoodNutrition is one item as returned by the CalorieNinjas nutrition endpoint.
type FoodNutrition struct {
	Name                string  `json:"name"`
	ServingSizeG        float64 `json:"serving_size_g"`
	Calories            float64 `json:"calories"`
	ProteinG            float64 `json:"protein_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FatTotalG           float64 `json:"fat_total_g"`
	FatSaturatedG       float64 `json:"fat_saturated_g"`
	FiberG              float64 `json:"fiber_g"`
	SugarG              float64 `json:"sugar_g"`
	CholesterolMg       float64 `json:"cholesterol_mg"`
	SodiumMg            float64 `json:"sodium_mg"`
	PotassiumMg         float64 `json:"potassium_mg"`
}

type CalorieNinjasService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCalorieNinjasService(apiKey string) *CalorieNinjasService {
	return &CalorieNinjasService{
		baseURL: calorieNinjasURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Nutrition looks up a free-text food query.
func (s *CalorieNinjasService) Nutrition(ctx context.Context, query string) ([]FoodNutrition, error) {
	if s.apiKey == "" {
		return nil, unavailable("Food lookup is not configured.")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("Please enter a food name.")
	}

	u := s.baseURL + "?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create nutrition request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, upstreamErr("failed to call CalorieNinjas: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CalorieNinjas response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr("calorieninjas API error %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Items []FoodNutrition `json:"items"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, upstreamErr("failed to parse CalorieNinjas JSON: %v", err)
	}
	return out.Items, nil
}
