package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

// GET /assessments
func ListAssessments(c *gin.Context) {
	c.JSON(http.StatusOK, services.ListAssessments())
}

// GET /assessments/:id
func GetAssessment(c *gin.Context) {
	a, err := services.GetAssessment(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// POST /assessments/:id/score {"answers": [0,1,2,...]}
func ScoreAssessment(c *gin.Context) {
	var in struct {
		Answers []int `json:"answers" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	res, err := services.ScoreAssessment(c.Param("id"), in.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
