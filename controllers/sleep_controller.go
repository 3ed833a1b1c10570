package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type SleepController struct {
	Svc *services.SleepService
}

func NewSleepController(svc *services.SleepService) *SleepController {
	return &SleepController{Svc: svc}
}

// POST /sleep/logs
func (h *SleepController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in services.SleepInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.Svc.CreateEntry(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// PUT /sleep/logs/:id
func (h *SleepController) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var in services.SleepInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.Svc.UpdateEntry(c.Request.Context(), uid, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /sleep/logs/:id
func (h *SleepController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteEntry(c.Request.Context(), uid, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /sleep/logs?days=7
func (h *SleepController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	logs, err := h.Svc.ListRecent(c.Request.Context(), uid, intQuery(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /sleep/settings
func (h *SleepController) GetSettings(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	st, err := h.Svc.GetSettings(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// PUT /sleep/settings
func (h *SleepController) UpdateSettings(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in services.SleepSettingsInput
	if !bindJSON(c, &in) {
		return
	}
	st, err := h.Svc.UpdateSettings(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /sleep/summary
func (h *SleepController) Summary(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	sum, err := h.Svc.Summary(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /sleep/calendar?month=YYYY-MM
func (h *SleepController) Calendar(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	cal, err := h.Svc.Calendar(c.Request.Context(), uid, c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}
