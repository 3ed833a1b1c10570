package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"github.com/tidwall/gjson"
)

const edamamRecipesURL = "https://api.edamam.com/api/recipes/v2"

type RecipeQuery struct {
	Q       string `form:"q"`
	Cuisine string `form:"cuisine"`
	Course  string `form:"course"`
	Diet    string `form:"diet"`
}

func (q RecipeQuery) empty() bool {
	return strings.TrimSpace(q.Q) == "" && strings.TrimSpace(q.Cuisine) == "" &&
		strings.TrimSpace(q.Course) == "" && strings.TrimSpace(q.Diet) == ""
}

type Recipe struct {
	Label       string   `json:"label"`
	Image       string   `json:"image"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Calories    float64  `json:"calories"`
	TotalTime   float64  `json:"total_time"`
	Servings    float64  `json:"servings"`
	CuisineType []string `json:"cuisine_type"`
	MealType    []string `json:"meal_type"`
	DishType    []string `json:"dish_type"`
	DietLabels  []string `json:"diet_labels"`
	Ingredients []string `json:"ingredients"`
}

type RecipeService struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
}

func NewRecipeService(appID, appKey string) *RecipeService {
	return &RecipeService{
		baseURL: edamamRecipesURL,
		appID:   appID,
		appKey:  appKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RecipeService) searchURL(q RecipeQuery) string {
	v := url.Values{}
	v.Set("type", "public")
	v.Set("app_id", s.appID)
	v.Set("app_key", s.appKey)
	if q.Q != "" {
		v.Set("q", strings.TrimSpace(q.Q))
	}
	if q.Cuisine != "" {
		v.Set("cuisineType", strings.TrimSpace(q.Cuisine))
	}
	if q.Course != "" {
		v.Set("dishType", strings.TrimSpace(q.Course))
	}
	if q.Diet != "" {
		v.Set("diet", strings.TrimSpace(q.Diet))
	}
	return s.baseURL + "?" + v.Encode()
}

func (s *RecipeService) Search(ctx context.Context, q RecipeQuery) ([]Recipe, error) {
	if q.empty() {
		return nil, invalid("Provide at least one of q, cuisine, course or diet.")
	}
	if s.appID == "" || s.appKey == "" {
		return nil, unavailable("Recipe search is not configured.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, upstreamErr("failed to call Edamam recipes: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Edamam recipes response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamErr("edamam recipes API error %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, upstreamErr("edamam recipes API returned invalid JSON")
	}
	return parseRecipeHits(body), nil
}

func parseRecipeHits(body []byte) []Recipe {
	hits := gjson.GetBytes(body, "hits.#.recipe").Array()
	out := make([]Recipe, 0, len(hits))
	for _, r := range hits {
		out = append(out, Recipe{
			Label:       r.Get("label").String(),
			Image:       r.Get("image").String(),
			URL:         r.Get("url").String(),
			Source:      r.Get("source").String(),
			Calories:    utils.Round(r.Get("calories").Float(), 0),
			TotalTime:   r.Get("totalTime").Float(),
			Servings:    r.Get("yield").Float(),
			CuisineType: stringsOf(r.Get("cuisineType")),
			MealType:    stringsOf(r.Get("mealType")),
			DishType:    stringsOf(r.Get("dishType")),
			DietLabels:  stringsOf(r.Get("dietLabels")),
			Ingredients: stringsOf(r.Get("ingredientLines")),
		})
	}
	return out
}

func stringsOf(v gjson.Result) []string {
	arr := v.Array()
	out := make([]string, 0, len(arr))
	for _, s := range arr {
		out = append(out, s.String())
	}
	return out
}
