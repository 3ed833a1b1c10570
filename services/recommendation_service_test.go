package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDayLogs []models.NutritionLog

func (f fakeDayLogs) ListDay(context.Context, uint, string) ([]models.NutritionLog, error) {
	return f, nil
}

func TestSplitBullets(t *testing.T) {
	got := splitBullets("- eat more fiber\n\n• drink water\n* less sugar \n  plain line")
	assert.Equal(t, []string{"eat more fiber", "drink water", "less sugar", "plain line"}, got)
}

func TestBuildRecPrompt(t *testing.T) {
	assert.Contains(t, buildRecPrompt(nil), "(nothing logged yet)")

	p := buildRecPrompt([]models.NutritionLog{{Name: "rice", ServingSizeG: 150, Calories: 195, ProteinG: 4}})
	assert.Contains(t, p, "- rice: 150g, 195 kcal, 4g protein")
}

func TestGetRecs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/google/flan-t5-small", r.URL.Path)

		var body struct {
			Inputs string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Inputs, "oats")

		_, _ = w.Write([]byte(`[{"generated_text":"- add berries\n- swap juice for water"}]`))
	}))
	defer srv.Close()

	svc := NewRecService(fakeDayLogs{{Name: "oats", Calories: 150}}, "tok")
	svc.baseURL = srv.URL + "/"

	recs, err := svc.GetRecs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"add berries", "swap juice for water"}, recs)
}

func TestGetRecsErrors(t *testing.T) {
	_, err := NewRecService(fakeDayLogs{}, "").GetRecs(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is loading"}`))
	}))
	defer srv.Close()

	svc := NewRecService(fakeDayLogs{}, "tok")
	svc.baseURL = srv.URL + "/"
	_, err = svc.GetRecs(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "Model is loading")
}
