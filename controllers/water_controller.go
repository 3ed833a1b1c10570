package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type WaterController struct {
	Svc *services.WaterService
}

func NewWaterController(svc *services.WaterService) *WaterController {
	return &WaterController{Svc: svc}
}

func (h *WaterController) respond(c *gin.Context, p *services.WaterProgress, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /water/today
func (h *WaterController) Today(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Svc.Today(c.Request.Context(), uid)
	h.respond(c, p, err)
}

// PUT /water/today
func (h *WaterController) Save(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in services.WaterInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.SaveToday(c.Request.Context(), uid, in)
	h.respond(c, p, err)
}

// POST /water/glass
func (h *WaterController) AddGlass(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Svc.AddGlasses(c.Request.Context(), uid, 1)
	h.respond(c, p, err)
}

// DELETE /water/glass
func (h *WaterController) RemoveGlass(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Svc.AddGlasses(c.Request.Context(), uid, -1)
	h.respond(c, p, err)
}

// POST /water/custom {"ml": 330}
func (h *WaterController) AddCustom(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in struct {
		Ml float64 `json:"ml"`
	}
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.Svc.AddCustom(c.Request.Context(), uid, in.Ml)
	h.respond(c, p, err)
}

// GET /water/history?days=7
func (h *WaterController) History(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.Svc.History(c.Request.Context(), uid, intQuery(c, "days", 7))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
