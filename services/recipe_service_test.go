package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const edamamBody = `{
  "from": 1, "to": 1, "count": 1,
  "hits": [{
    "recipe": {
      "label": "Paneer Tikka",
      "image": "https://img/1.jpg",
      "url": "https://example.org/paneer",
      "source": "Example",
      "yield": 4,
      "calories": 1234.56,
      "totalTime": 35,
      "cuisineType": ["indian"],
      "mealType": ["lunch/dinner"],
      "dishType": ["starter"],
      "dietLabels": ["Low-Carb"],
      "ingredientLines": ["200g paneer", "1 cup yogurt"]
    }
  }]
}`

func TestRecipeSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "public", q.Get("type"))
		assert.Equal(t, "id", q.Get("app_id"))
		assert.Equal(t, "key", q.Get("app_key"))
		assert.Equal(t, "indian", q.Get("cuisineType"))
		assert.Equal(t, "starter", q.Get("dishType"))
		assert.Empty(t, q.Get("diet"))
		_, _ = w.Write([]byte(edamamBody))
	}))
	defer srv.Close()

	svc := NewRecipeService("id", "key")
	svc.baseURL = srv.URL

	recipes, err := svc.Search(context.Background(), RecipeQuery{Cuisine: "indian", Course: "starter"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.Equal(t, "Paneer Tikka", r.Label)
	assert.Equal(t, 1235.0, r.Calories)
	assert.Equal(t, 4.0, r.Servings)
	assert.Equal(t, 35.0, r.TotalTime)
	assert.Equal(t, []string{"indian"}, r.CuisineType)
	assert.Equal(t, []string{"200g paneer", "1 cup yogurt"}, r.Ingredients)
}

func TestRecipeSearchEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"hits":[]}`))
	}))
	defer srv.Close()

	svc := NewRecipeService("id", "key")
	svc.baseURL = srv.URL

	recipes, err := svc.Search(context.Background(), RecipeQuery{Q: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestRecipeSearchRejects(t *testing.T) {
	svc := NewRecipeService("id", "key")
	_, err := svc.Search(context.Background(), RecipeQuery{Q: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewRecipeService("", "").Search(context.Background(), RecipeQuery{Q: "soup"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRecipeSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewRecipeService("id", "key")
	svc.baseURL = srv.URL
	_, err := svc.Search(context.Background(), RecipeQuery{Q: "soup"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "429")
}
