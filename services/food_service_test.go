package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource map[string][]FoodNutrition

func (f fakeSource) Nutrition(_ context.Context, query string) ([]FoodNutrition, error) {
	return f[query], nil
}

type fakeRecognizer struct {
	labels []string
	err    error
}

func (f fakeRecognizer) RecognizeLabels(context.Context, string) ([]string, error) {
	return f.labels, f.err
}

var apple = FoodNutrition{Name: "apple", Calories: 95.123, ProteinG: 0.5, CarbohydratesTotalG: 25.1, FatTotalG: 0.3}

func TestMacroBreakdown(t *testing.T) {
	parts := MacroBreakdown(FoodNutrition{Calories: 200, ProteinG: 10, CarbohydratesTotalG: 20, FatTotalG: 5})
	require.Len(t, parts, 4)
	assert.Equal(t, MacroShare{Name: "Protein", Calories: 40, Percent: 20}, parts[0])
	assert.Equal(t, MacroShare{Name: "Carbs", Calories: 80, Percent: 40}, parts[1])
	assert.Equal(t, MacroShare{Name: "Fat", Calories: 45, Percent: 22.5}, parts[2])
	assert.Equal(t, MacroShare{Name: "Other", Calories: 35, Percent: 17.5}, parts[3])

	// macros exceeding the label never produce negative "other"
	parts = MacroBreakdown(FoodNutrition{Calories: 10, FatTotalG: 2})
	assert.Equal(t, 0.0, parts[3].Calories)

	parts = MacroBreakdown(FoodNutrition{ProteinG: 1})
	assert.Equal(t, 400.0, parts[0].Percent)
}

func TestFoodLookup(t *testing.T) {
	svc := NewFoodService(fakeSource{"apple": {apple}}, nil)

	out, err := svc.Lookup(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, 95.12, out.Item.Calories)
	assert.Len(t, out.Breakdown, 4)

	_, err = svc.Lookup(context.Background(), "unobtainium")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Food not found.")
}

func TestFoodCompare(t *testing.T) {
	banana := FoodNutrition{Name: "banana", Calories: 105, ProteinG: 1.3, CarbohydratesTotalG: 27, FatTotalG: 0.4}
	svc := NewFoodService(fakeSource{"apple": {apple}, "banana": {banana}}, nil)

	out, err := svc.Compare(context.Background(), "apple", "banana")
	require.NoError(t, err)
	require.Len(t, out.Table, 4)
	assert.Equal(t, NutrientRow{Nutrient: "Protein", Food1: 0.5, Food2: 1.3}, out.Table[0])
	assert.Equal(t, NutrientRow{Nutrient: "Calories", Food1: 95.12, Food2: 105}, out.Table[3])
}

func TestFoodRecognize(t *testing.T) {
	svc := NewFoodService(fakeSource{"Apple": {apple}}, fakeRecognizer{labels: []string{"Apple", "Fruit"}})
	out, err := svc.Recognize(context.Background(), "data:image/png;base64,AA==")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Fruit"}, out.Labels)
	assert.Equal(t, "apple", out.Insight.Item.Name)

	svc = NewFoodService(fakeSource{}, fakeRecognizer{})
	_, err = svc.Recognize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotFound)

	svc = NewFoodService(fakeSource{}, fakeRecognizer{err: errors.New("boom")})
	_, err = svc.Recognize(context.Background(), "x")
	assert.EqualError(t, err, "boom")

	svc = NewFoodService(fakeSource{}, nil)
	_, err = svc.Recognize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCalorieNinjasNutrition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "2 eggs", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"name":"eggs","calories":147.2,"serving_size_g":100,"protein_g":12.6,"fat_total_g":9.8,"carbohydrates_total_g":0.7,"sodium_mg":143}]}`))
	}))
	defer srv.Close()

	svc := NewCalorieNinjasService("key")
	svc.baseURL = srv.URL

	items, err := svc.Nutrition(context.Background(), " 2 eggs ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "eggs", items[0].Name)
	assert.Equal(t, 12.6, items[0].ProteinG)
	assert.Equal(t, 143.0, items[0].SodiumMg)

	bad := NewCalorieNinjasService("wrong")
	bad.baseURL = srv.URL
	_, err = bad.Nutrition(context.Background(), "2 eggs")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = svc.Nutrition(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewCalorieNinjasService("").Nutrition(context.Background(), "egg")
	assert.ErrorIs(t, err, ErrUnavailable)
}
