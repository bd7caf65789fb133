package controllers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamrank/trs/api/models"
	"github.com/teamrank/trs/api/transport"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/reputation"
	"github.com/teamrank/trs/storage"
)

// MatchingController exposes the Matcher's two derived rankings:
// viewer-perspective lobby ordering and leader invite suggestions.
type MatchingController struct {
	store       storage.Loader
	lobbies     storage.LobbyStorage
	teams       storage.TeamStorage
	teamMembers storage.TeamMemberStorage
	invitations storage.InvitationStorage
	engine      reputation.TrustConfig
}

func NewMatchingController(
	store storage.Loader,
	lobbies storage.LobbyStorage,
	teams storage.TeamStorage,
	teamMembers storage.TeamMemberStorage,
	invitations storage.InvitationStorage,
	engine reputation.TrustConfig,
) *MatchingController {
	return &MatchingController{
		store:       store,
		lobbies:     lobbies,
		teams:       teams,
		teamMembers: teamMembers,
		invitations: invitations,
		engine:      engine,
	}
}

func (c *MatchingController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/lobbies/ranked", transport.ViewerAuthMiddleware(), c.rankLobbies)
	engine.GET("/api/teams/:id/invite-suggestions", transport.ViewerAuthMiddleware(), c.inviteSuggestions)
}

// @Summary Rank lobbies for the viewer
// @Tags Matching
// @Produce json
// @Success 200 {array} models.RankedLobbyResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/lobbies/ranked [get]
func (c *MatchingController) rankLobbies(g *gin.Context) {
	viewerID, ok := transport.ViewerID(g)
	if !ok {
		g.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := g.Request.Context()
	storedLobbies, err := c.lobbies.GetAll(ctx)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to load lobbies: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// GetAll is a Dynamo Scan and carries no ordering guarantee; sort by
	// CreatedAt descending first so OriginalIndex is a stable "newest
	// first" baseline rather than arbitrary scan order.
	sort.SliceStable(storedLobbies, func(i, j int) bool {
		return storedLobbies[i].CreatedAt.After(storedLobbies[j].CreatedAt)
	})

	lobbies := make([]reputation.Lobby, 0, len(storedLobbies))
	byID := make(map[int]*storage.Lobby, len(storedLobbies))
	for i, l := range storedLobbies {
		byID[l.ID] = l
		team, err := c.teams.GetByLobby(ctx, l.ID)
		locked := false
		var memberIDs []int
		if err == nil {
			locked = team.Locked
			members, merr := c.teamMembers.GetByTeam(ctx, team.ID)
			if merr == nil {
				for _, m := range members {
					memberIDs = append(memberIDs, m.UserID)
				}
			}
		}
		lobbies = append(lobbies, reputation.Lobby{
			ID:            l.ID,
			LeaderID:      l.LeaderID,
			Finished:      l.Finished,
			TeamLocked:    locked,
			MemberIDs:     memberIDs,
			OriginalIndex: i,
		})
	}

	svc := newService(c.store, c.engine)
	ranked, err := svc.RankLobbies(ctx, viewerID, lobbies)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to rank lobbies: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]models.RankedLobbyResponse, 0, len(ranked))
	for _, r := range ranked {
		resp = append(resp, models.RankedLobbyResponse{
			LobbyResponse: models.TransformLobbyFromStorage(byID[r.Lobby.ID]),
			Joinable:      r.Joinable,
			TeamRep:       r.TeamRep,
		})
	}
	g.JSON(http.StatusOK, resp)
}

// @Summary Suggest invite candidates for a team's leader
// @Tags Matching
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {array} models.ReputationResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/teams/{id}/invite-suggestions [get]
func (c *MatchingController) inviteSuggestions(g *gin.Context) {
	viewerID, ok := transport.ViewerID(g)
	if !ok {
		g.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	teamID, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}

	ctx := g.Request.Context()
	team, err := c.teams.Get(ctx, teamID)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to load team %d: %v", teamID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	lobby, err := c.lobbies.Get(ctx, team.LobbyID)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to load lobby %d: %v", team.LobbyID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if lobby.LeaderID != viewerID {
		g.JSON(http.StatusForbidden, gin.H{"error": "only the lobby leader may view invite suggestions"})
		return
	}
	if lobby.Finished || team.Locked {
		g.JSON(http.StatusForbidden, gin.H{"error": "team is not open for invites"})
		return
	}

	excluded := map[int]bool{viewerID: true}
	members, err := c.teamMembers.GetByTeam(ctx, teamID)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to load team members for %d: %v", teamID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, m := range members {
		excluded[m.UserID] = true
	}

	invites, err := c.invitations.GetByTeam(ctx, teamID)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to load invitations for %d: %v", teamID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, inv := range invites {
		if inv.Status == storage.InvitationStatusPending {
			excluded[inv.TargetID] = true
		}
	}

	svc := newService(c.store, c.engine)
	candidates, err := svc.InviteCandidates(ctx, viewerID, excluded)
	if err != nil {
		logging.Log.Errorf("MATCHING: failed to compute invite candidates: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	g.JSON(http.StatusOK, candidates)
}
