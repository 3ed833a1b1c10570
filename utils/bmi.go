package utils

import (
	"errors"
	"fmt"
	"strings"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
// The result is rounded to two decimals.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("Weight and height must be positive numbers.")
	}

	h := heightCm / 100.0 // to meters
	return Round(weightKg/(h*h), 2), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 24.9:
		return "Normal"
	case bmi < 29.9:
		return "Overweight"
	default:
		return "Obese"
	}
}

// BMIGaugePercent places bmi on a 10..40 scale.
func BMIGaugePercent(bmi float64) float64 {
	const lo, hi = 10.0, 40.0
	return Round((Clamp(bmi, lo, hi)-lo)/(hi-lo)*100, 2)
}

func BMIGenderTip(gender string) string {
	g := strings.ToLower(strings.TrimSpace(gender))
	switch {
	case g == "":
		return "General guidance - calculate to see tailored tips."
	// "female" contains "m" too, so check "f" first
	case strings.Contains(g, "f"):
		return "For women - focus on strength, calcium and balanced protein."
	case strings.Contains(g, "m"):
		return "For men - combine resistance training with cardio."
	default:
		return "Maintain balanced diet and activity."
	}
}

func BMIShareText(bmi float64, category string) string {
	return fmt.Sprintf("My BMI is %s - %s", FormatFloat(bmi), category)
}
