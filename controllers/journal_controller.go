package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type JournalController struct {
	Svc *services.JournalService
}

func NewJournalController(svc *services.JournalService) *JournalController {
	return &JournalController{Svc: svc}
}

// PUT /journal/:date
func (h *JournalController) Save(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in services.JournalInput
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.Svc.Save(c.Request.Context(), uid, c.Param("date"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GET /journal/:date
func (h *JournalController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	entry, err := h.Svc.Get(c.Request.Context(), uid, c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /journal/:date
func (h *JournalController) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("date")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GET /journal
func (h *JournalController) List(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	entries, err := h.Svc.ListRecent(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
