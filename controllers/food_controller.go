package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Svc *services.FoodService
}

func NewFoodController(svc *services.FoodService) *FoodController {
	return &FoodController{Svc: svc}
}

// GET /food/nutrition?query=apple
func (h *FoodController) Lookup(c *gin.Context) {
	out, err := h.Svc.Lookup(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /food/compare?food1=apple&food2=banana
func (h *FoodController) Compare(c *gin.Context) {
	food1, food2 := c.Query("food1"), c.Query("food2")
	if food1 == "" || food2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter both foods to compare."})
		return
	}
	out, err := h.Svc.Compare(c.Request.Context(), food1, food2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /food/recognize  { "image_base64": "data:..." }
func (h *FoodController) Recognize(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	out, err := h.Svc.Recognize(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
