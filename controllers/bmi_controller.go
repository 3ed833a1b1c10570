package controllers

import (
	"context"
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/models"
	"github.com/HazelSharmaCoderHZ/HealthPlus2/utils"

	"github.com/gin-gonic/gin"
)

// UserLookup loads the caller for gender-specific tips.
type UserLookup interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
}

type BMIController struct {
	Users UserLookup
}

func NewBMIController(users UserLookup) *BMIController {
	return &BMIController{Users: users}
}

type bmiInput struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
}

// POST /bmi
func (h *BMIController) Calculate(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in bmiInput
	if !bindJSON(c, &in) {
		return
	}

	bmi, err := utils.CalculateBMI(in.HeightCm, in.WeightKg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var gender string
	if user, err := h.Users.GetUser(c.Request.Context(), uid); err == nil {
		gender = user.Gender
	}

	category := utils.BMICategory(bmi)
	c.JSON(http.StatusOK, gin.H{
		"bmi":           bmi,
		"category":      category,
		"gauge_percent": utils.BMIGaugePercent(bmi),
		"tip":           utils.BMIGenderTip(gender),
		"share_text":    utils.BMIShareText(bmi, category),
	})
}
