package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamrank/trs/api/models"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/reputation"
	"github.com/teamrank/trs/storage"
)

// ReputationController exposes the engine's trust/reputation surface
// over HTTP: one reputation lookup and the graph export for the
// visualization front-end.
type ReputationController struct {
	store  storage.Loader
	engine reputation.TrustConfig
}

func NewReputationController(store storage.Loader, engine reputation.TrustConfig) *ReputationController {
	return &ReputationController{store: store, engine: engine}
}

func (c *ReputationController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/users/:id/reputation", c.getReputation)
	engine.GET("/graph", c.getGraph)
}

// @Summary Get a user's weighted reputation
// @Tags Reputation
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.ReputationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/users/{id}/reputation [get]
func (c *ReputationController) getReputation(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	svc := newService(c.store, c.engine)
	rep, err := svc.Reputation(g.Request.Context(), id)
	if err != nil {
		if err == reputation.ErrNotFound {
			g.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logging.Log.Errorf("REPUTATION: failed to compute reputation for %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	overall, _ := svc.Overall(g.Request.Context(), id)
	g.JSON(http.StatusOK, models.TransformReputationFromEngine(id, rep, overall))
}

// @Summary Export the trust/reputation graph
// @Tags Reputation
// @Produce json
// @Success 200 {object} models.GraphResponse
// @Failure 500 {object} map[string]string
// @Router /graph [get]
func (c *ReputationController) getGraph(g *gin.Context) {
	ctx := g.Request.Context()

	users, err := c.store.AllUsers(ctx)
	if err != nil {
		logging.Log.Errorf("GRAPH: failed to load users: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	svc := newService(c.store, c.engine)
	trust, err := svc.TrustScores(ctx)
	if err != nil {
		logging.Log.Errorf("GRAPH: failed to compute trust: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	collapsed, err := svc.CollapsedEdges(ctx)
	if err != nil {
		logging.Log.Errorf("GRAPH: failed to collapse edges: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	nodes := make([]models.GraphNode, 0, len(users))
	for _, u := range users {
		rep, err := svc.Reputation(ctx, u.ID)
		var repResp *models.ReputationResponse
		overall := 0.0
		if err == nil {
			overall, _ = svc.Overall(ctx, u.ID)
			r := models.TransformReputationFromEngine(u.ID, rep, overall)
			repResp = &r
		}
		nodes = append(nodes, models.GraphNode{
			ID:                u.ID,
			Name:              u.Name,
			Trust:             trust[u.ID],
			Reputation:        repResp,
			ReputationOverall: overall / 10,
		})
	}

	edges := graphEdgesFromCollapsed(collapsed)

	g.JSON(http.StatusOK, models.GraphResponse{Nodes: nodes, Edges: edges})
}
