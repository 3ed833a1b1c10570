package services

import (
	"context"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"
)

// NutritionSource looks foods up by name.
type NutritionSource interface {
	Nutrition(ctx context.Context, query string) ([]FoodNutrition, error)
}

// LabelRecognizer names what is in a photo.
type LabelRecognizer interface {
	RecognizeLabels(ctx context.Context, dataURI string) ([]string, error)
}

type MacroShare struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Percent  float64 `json:"percent"`
}

type FoodInsight struct {
	Item      FoodNutrition `json:"item"`
	Breakdown []MacroShare  `json:"breakdown"`
}

type NutrientRow struct {
	Nutrient string  `json:"nutrient"`
	Food1    float64 `json:"food1"`
	Food2    float64 `json:"food2"`
}

type FoodComparison struct {
	Food1 FoodInsight   `json:"food1"`
	Food2 FoodInsight   `json:"food2"`
	Table []NutrientRow `json:"table"`
}

type RecognizedFood struct {
	Labels  []string     `json:"labels"`
	Insight *FoodInsight `json:"insight"`
}

type FoodService struct {
	source     NutritionSource
	recognizer LabelRecognizer
}

func NewFoodService(source NutritionSource, recognizer LabelRecognizer) *FoodService {
	return &FoodService{source: source, recognizer: recognizer}
}

// MacroBreakdown splits an item's energy into protein, carbs, fat and the remainder.
func MacroBreakdown(item FoodNutrition) []MacroShare {
	protein := item.ProteinG * 4
	carbs := item.CarbohydratesTotalG * 4
	fat := item.FatTotalG * 9
	other := item.Calories - (protein + carbs + fat)
	if other < 0 {
		other = 0
	}

	total := item.Calories
	if total == 0 {
		total = 1
	}
	share := func(name string, kcal float64) MacroShare {
		return MacroShare{Name: name, Calories: utils.Round(kcal, 2), Percent: utils.Round(kcal/total*100, 1)}
	}
	return []MacroShare{
		share("Protein", protein),
		share("Carbs", carbs),
		share("Fat", fat),
		share("Other", other),
	}
}

func roundItem(item FoodNutrition) FoodNutrition {
	item.Calories = utils.Round(item.Calories, 2)
	item.ProteinG = utils.Round(item.ProteinG, 2)
	item.CarbohydratesTotalG = utils.Round(item.CarbohydratesTotalG, 2)
	item.FatTotalG = utils.Round(item.FatTotalG, 2)
	return item
}

// Lookup returns the first match for query with its macro breakdown.
func (s *FoodService) Lookup(ctx context.Context, query string) (*FoodInsight, error) {
	items, err := s.source.Nutrition(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("Food not found.")
	}
	item := items[0]
	return &FoodInsight{Item: roundItem(item), Breakdown: MacroBreakdown(item)}, nil
}

func (s *FoodService) Compare(ctx context.Context, food1, food2 string) (*FoodComparison, error) {
	a, err := s.Lookup(ctx, food1)
	if err != nil {
		return nil, err
	}
	b, err := s.Lookup(ctx, food2)
	if err != nil {
		return nil, err
	}
	return &FoodComparison{
		Food1: *a,
		Food2: *b,
		Table: []NutrientRow{
			{Nutrient: "Protein", Food1: a.Item.ProteinG, Food2: b.Item.ProteinG},
			{Nutrient: "Carbs", Food1: a.Item.CarbohydratesTotalG, Food2: b.Item.CarbohydratesTotalG},
			{Nutrient: "Fat", Food1: a.Item.FatTotalG, Food2: b.Item.FatTotalG},
			{Nutrient: "Calories", Food1: a.Item.Calories, Food2: b.Item.Calories},
		},
	}, nil
}

// Recognize labels a food photo and looks up the best label.
func (s *FoodService) Recognize(ctx context.Context, dataURI string) (*RecognizedFood, error) {
	if s.recognizer == nil {
		return nil, unavailable("Food recognition is not configured.")
	}
	labels, err := s.recognizer.RecognizeLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, notFound("No food recognized in the image.")
	}
	insight, err := s.Lookup(ctx, labels[0])
	if err != nil {
		return nil, err
	}
	return &RecognizedFood{Labels: labels, Insight: insight}, nil
}
