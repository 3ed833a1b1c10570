package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	Svc *services.RecService
}

func NewRecommendationController(svc *services.RecService) *RecommendationController {
	return &RecommendationController{Svc: svc}
}

// GET /recommendations
func (h *RecommendationController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	recs, err := h.Svc.GetRecs(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}
