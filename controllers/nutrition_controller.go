package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type NutritionController struct {
	Svc *services.NutritionService
}

func NewNutritionController(svc *services.NutritionService) *NutritionController {
	return &NutritionController{Svc: svc}
}

type logItemInput struct {
	Date string `json:"date"`
	services.FoodNutrition
}

// POST /nutrition/logs
func (h *NutritionController) LogItem(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in logItemInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.Svc.LogItem(c.Request.Context(), uid, in.Date, in.FoodNutrition)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GET /nutrition/logs?date=YYYY-MM-DD
func (h *NutritionController) ListDay(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	logs, err := h.Svc.ListDay(c.Request.Context(), uid, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /nutrition/summary?date=YYYY-MM-DD, null when nothing was logged
func (h *NutritionController) Summary(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	sum, err := h.Svc.DaySummary(c.Request.Context(), uid, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// DELETE /nutrition/logs/:id
func (h *NutritionController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteLog(c.Request.Context(), uid, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
