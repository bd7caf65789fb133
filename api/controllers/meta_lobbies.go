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

type LobbyMetaController struct {
	storage storage.LobbyStorage
}

func NewLobbyMetaController(s storage.LobbyStorage) *LobbyMetaController {
	return &LobbyMetaController{storage: s}
}

func (c *LobbyMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/lobbies")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.POST("/:id/finish", transport.AdminAuthMiddleware(), c.finish)
}

// @Summary Get all lobbies
// @Tags Meta/Lobbies
// @Produce json
// @Success 200 {array} models.LobbyResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/lobbies [get]
func (c *LobbyMetaController) getAll(g *gin.Context) {
	lobbies, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all lobbies: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.LobbyResponse, 0, len(lobbies))
	for _, l := range lobbies {
		responses = append(responses, models.TransformLobbyFromStorage(l))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get a lobby by ID
// @Tags Meta/Lobbies
// @Produce json
// @Param id path int true "Lobby ID"
// @Success 200 {object} models.LobbyResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/lobbies/{id} [get]
func (c *LobbyMetaController) get(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid lobby id"})
		return
	}

	lobby, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "lobby not found"})
			return
		}
		logging.Log.Errorf("META: failed to get lobby: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformLobbyFromStorage(lobby))
}

// @Security AdminToken
// @Summary Create a lobby
// @Tags Meta/Lobbies
// @Accept json
// @Produce json
// @Param lobby body models.LobbyCreateRequest true "Lobby object"
// @Success 200 {object} models.LobbyResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/lobbies [post]
func (c *LobbyMetaController) create(g *gin.Context) {
	var req models.LobbyCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create lobby request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Title == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request empty title"})
		return
	}

	lobby := &storage.Lobby{
		ID:          req.ID,
		Title:       req.Title,
		ContestLink: req.ContestLink,
		LeaderID:    req.LeaderID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := c.storage.Create(g.Request.Context(), lobby); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			logging.Log.Warnf("META: lobby already exists")
			g.JSON(http.StatusConflict, gin.H{"error": "lobby already exists"})
			return
		}
		logging.Log.Errorf("META: failed to create lobby: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformLobbyFromStorage(lobby))
}

// @Security AdminToken
// @Summary Mark a lobby as finished, enabling ratings on its team
// @Tags Meta/Lobbies
// @Produce json
// @Param id path int true "Lobby ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/lobbies/{id}/finish [post]
func (c *LobbyMetaController) finish(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid lobby id"})
		return
	}
	if err := c.storage.Finish(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to finish lobby %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "lobby finished"})
}
