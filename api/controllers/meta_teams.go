package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamrank/trs/api/models"
	"github.com/teamrank/trs/api/transport"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

type TeamMetaController struct {
	storage     storage.TeamStorage
	teamMembers storage.TeamMemberStorage
}

func NewTeamMetaController(s storage.TeamStorage, members storage.TeamMemberStorage) *TeamMetaController {
	return &TeamMetaController{storage: s, teamMembers: members}
}

func (c *TeamMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/teams")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.POST("/:id/lock", transport.AdminAuthMiddleware(), c.lock)
	group.POST("/:id/members/:userId", transport.AdminAuthMiddleware(), c.addMember)
}

// @Summary Get all teams
// @Tags Meta/Teams
// @Produce json
// @Success 200 {array} models.TeamResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/teams [get]
func (c *TeamMetaController) getAll(g *gin.Context) {
	teams, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all teams: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.TeamResponse, 0, len(teams))
	for _, t := range teams {
		responses = append(responses, models.TransformTeamFromStorage(t))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a team by ID
// @Tags Meta/Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/teams/{id} [get]
func (c *TeamMetaController) get(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	team, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
			return
		}
		logging.Log.Errorf("META: failed to get team: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// @Security AdminToken
// @Summary Create a team
// @Tags Meta/Teams
// @Accept json
// @Produce json
// @Param team body models.TeamCreateRequest true "Team object"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/teams [post]
func (c *TeamMetaController) create(g *gin.Context) {
	var req models.TeamCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create team request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	team := &storage.Team{
		ID:        req.ID,
		LobbyID:   req.LobbyID,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.storage.Create(g.Request.Context(), team); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			logging.Log.Warnf("META: team with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, gin.H{"error": "team with ID already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create team: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// @Security AdminToken
// @Summary Lock a team, freezing further joins
// @Tags Meta/Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/teams/{id}/lock [post]
func (c *TeamMetaController) lock(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	if err := c.storage.Lock(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to lock team %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "team locked"})
}

// @Security AdminToken
// @Summary Add a member to a team
// @Tags Meta/Teams
// @Produce json
// @Param id path int true "Team ID"
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/teams/{id}/members/{userId} [post]
func (c *TeamMetaController) addMember(g *gin.Context) {
	teamID, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	userID, err := strconv.Atoi(g.Param("userId"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := c.teamMembers.Add(g.Request.Context(), teamID, userID); err != nil {
		logging.Log.Errorf("META: failed to add member %d to team %d: %v", userID, teamID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "member added"})
}
