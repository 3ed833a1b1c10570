package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Alerts *services.AlertBus
	Push   *services.PushService
}

func NewAlertController(alerts *services.AlertBus, push *services.PushService) *AlertController {
	return &AlertController{Alerts: alerts, Push: push}
}

// GET /user/alerts?limit=50
func (h *AlertController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	alerts, err := h.Alerts.List(c.Request.Context(), uid, intQuery(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// POST /user/devices
func (h *AlertController) RegisterDevice(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.RegisterDeviceReq
	if !bindJSON(c, &req) {
		return
	}
	dev, err := h.Push.RegisterDevice(c.Request.Context(), uid, req.Platform, req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoint_arn": dev.EndpointARN})
}

// POST /user/notifications/toggle
func (h *AlertController) ToggleNotifications(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.Push.SetEnabled(c.Request.Context(), uid, req.Enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": req.Enabled,
	})
}
