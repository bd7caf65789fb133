package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamrank/trs/api/models"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

// RatingsController handles rating submission, enforcing the engine's
// three gate invariants (finished contest, teammate membership, no
// self-rating) before the row ever reaches storage.
type RatingsController struct {
	ratings     storage.RatingStorage
	lobbies     storage.LobbyStorage
	teams       storage.TeamStorage
	teamMembers storage.TeamMemberStorage
}

func NewRatingsController(ratings storage.RatingStorage, lobbies storage.LobbyStorage, teams storage.TeamStorage, teamMembers storage.TeamMemberStorage) *RatingsController {
	return &RatingsController{ratings: ratings, lobbies: lobbies, teams: teams, teamMembers: teamMembers}
}

func (c *RatingsController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/api/ratings", c.create)
}

// @Summary Submit or replace a rating
// @Tags Ratings
// @Accept json
// @Produce json
// @Param rating body models.RatingCreateRequest true "Rating object"
// @Success 200 {object} models.RatingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/ratings [post]
func (c *RatingsController) create(g *gin.Context) {
	var req models.RatingCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("RATING: invalid create rating request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.RaterID == req.TargetID {
		logging.Log.Warnf("RATING: rejected self-rating attempt by user %d", req.RaterID)
		g.JSON(http.StatusForbidden, gin.H{"error": "cannot rate yourself"})
		return
	}

	ctx := g.Request.Context()

	team, err := c.teams.Get(ctx, req.TeamID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusBadRequest, gin.H{"error": "team not found"})
			return
		}
		logging.Log.Errorf("RATING: failed to load team %d: %v", req.TeamID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lobby, err := c.lobbies.Get(ctx, team.LobbyID)
	if err != nil {
		logging.Log.Errorf("RATING: failed to load lobby %d: %v", team.LobbyID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !lobby.Finished {
		logging.Log.Warnf("RATING: rejected rating on unfinished lobby %d", lobby.ID)
		g.JSON(http.StatusForbidden, gin.H{"error": "contest is not finished"})
		return
	}

	members, err := c.teamMembers.GetByTeam(ctx, req.TeamID)
	if err != nil {
		logging.Log.Errorf("RATING: failed to load team members for %d: %v", req.TeamID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !bothAreMembers(members, req.RaterID, req.TargetID) {
		logging.Log.Warnf("RATING: rejected rating, rater %d or target %d not on team %d", req.RaterID, req.TargetID, req.TeamID)
		g.JSON(http.StatusForbidden, gin.H{"error": "rater and target must both be team members"})
		return
	}

	// A rewrite replaces, never accumulates: delete any prior effective
	// rating for this ordered (team, rater, target) triple first.
	if err := c.ratings.DeleteEffective(ctx, req.TeamID, req.RaterID, req.TargetID); err != nil {
		logging.Log.Errorf("RATING: failed to clear prior rating: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rating := &storage.Rating{
		TeamID:         req.TeamID,
		RaterID:        req.RaterID,
		TargetID:       req.TargetID,
		Contribution:   req.Contribution,
		Communication:  req.Communication,
		WouldWorkAgain: req.WouldWorkAgain,
		Comment:        req.Comment,
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.ratings.Create(ctx, rating); err != nil {
		logging.Log.Errorf("RATING: failed to create rating: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	g.JSON(http.StatusOK, models.TransformRatingFromStorage(rating))
}

func bothAreMembers(members []*storage.TeamMember, raterID, targetID int) bool {
	rater, target := false, false
	for _, m := range members {
		if m.UserID == raterID {
			rater = true
		}
		if m.UserID == targetID {
			target = true
		}
	}
	return rater && target
}
