package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(175, 70)
	require.NoError(t, err)
	assert.Equal(t, 22.86, bmi)

	_, err = CalculateBMI(0, 70)
	assert.EqualError(t, err, "Weight and height must be positive numbers.")

	_, err = CalculateBMI(170, -1)
	assert.Error(t, err)
}

func TestBMICategory(t *testing.T) {
	cases := map[float64]string{
		16:    "Underweight",
		18.49: "Underweight",
		18.5:  "Normal",
		24.89: "Normal",
		24.9:  "Overweight",
		29.89: "Overweight",
		29.9:  "Obese",
		45:    "Obese",
	}
	for bmi, want := range cases {
		assert.Equal(t, want, BMICategory(bmi), "bmi %v", bmi)
	}
}

func TestBMIGaugePercent(t *testing.T) {
	assert.Equal(t, 0.0, BMIGaugePercent(5))
	assert.Equal(t, 0.0, BMIGaugePercent(10))
	assert.Equal(t, 50.0, BMIGaugePercent(25))
	assert.Equal(t, 100.0, BMIGaugePercent(40))
	assert.Equal(t, 100.0, BMIGaugePercent(55))
}

func TestBMIGenderTip(t *testing.T) {
	assert.Equal(t, "General guidance - calculate to see tailored tips.", BMIGenderTip(""))
	assert.Contains(t, BMIGenderTip("female"), "women")
	assert.Contains(t, BMIGenderTip("Male"), "men")
	assert.NotContains(t, BMIGenderTip("male"), "women")
	assert.Equal(t, "Maintain balanced diet and activity.", BMIGenderTip("other"))
}

func TestBMIShareText(t *testing.T) {
	assert.Equal(t, "My BMI is 22.5 - Normal", BMIShareText(22.5, "Normal"))
	assert.Equal(t, "My BMI is 22.86 - Normal", BMIShareText(22.86, "Normal"))
}
