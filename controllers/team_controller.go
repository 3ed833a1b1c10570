package controllers

import (
	"net/http"

	"github.com/HazelSharmaCoderHZ/HealthPlus2/services"

	"github.com/gin-gonic/gin"
)

type TeamController struct {
	Svc *services.TeamService
}

func NewTeamController(svc *services.TeamService) *TeamController {
	return &TeamController{Svc: svc}
}

// POST /teams {"name": "..."}
func (h *TeamController) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &in) {
		return
	}
	team, err := h.Svc.CreateTeam(c.Request.Context(), in.Name, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GET /teams
func (h *TeamController) Mine(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	teams, err := h.Svc.GetUserTeams(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GET /teams/:id
func (h *TeamController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	team, err := h.Svc.GetTeam(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// GET /teams/lookup?code=abcd1234
func (h *TeamController) FindByCode(c *gin.Context) {
	team, err := h.Svc.FindTeamByInviteCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// POST /teams/join {"invite_code": "..."}
func (h *TeamController) JoinByCode(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var in struct {
		InviteCode string `json:"invite_code"`
	}
	if !bindJSON(c, &in) {
		return
	}
	m, err := h.Svc.JoinByInviteCode(c.Request.Context(), uid, in.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// POST /teams/:id/join
func (h *TeamController) RequestToJoin(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	m, err := h.Svc.RequestToJoin(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /teams/:id/members
func (h *TeamController) Members(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	members, err := h.Svc.GetTeamMembers(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// POST /teams/:id/members/:userId/approve
func (h *TeamController) Approve(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	target, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	m, err := h.Svc.ApproveMember(c.Request.Context(), uid, c.Param("id"), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /teams/:id/members/:userId
func (h *TeamController) Remove(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	target, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	if err := h.Svc.RemoveMember(c.Request.Context(), uid, c.Param("id"), target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// POST /teams/:id/invite-code
func (h *TeamController) RegenerateCode(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	team, err := h.Svc.RegenerateInviteCode(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// GET /teams/:id/stats
func (h *TeamController) Stats(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.Svc.TeamStats(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
