package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamrank/trs/api/models"
	ctesting "github.com/teamrank/trs/api/controllers/testing"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

func setupRatingsTestController(t *testing.T) (*gin.Engine, *storage.DynamoLobbyStorage, *storage.DynamoTeamStorage, *storage.DynamoTeamMemberStorage) {
	t.Helper()
	logging.Log = logrus.New()

	client := newLocalDynamoClient(t)
	t.Cleanup(func() {
		cleanupDynamoTable(t, client, "Ratings")
		cleanupDynamoTable(t, client, "Lobbies")
		cleanupDynamoTable(t, client, "Teams")
		cleanupDynamoTable(t, client, "TeamMembers")
	})

	ratings := &storage.DynamoRatingStorage{Client: client, TableName: "Ratings"}
	lobbies := &storage.DynamoLobbyStorage{Client: client, TableName: "Lobbies"}
	teams := &storage.DynamoTeamStorage{Client: client, TableName: "Teams"}
	members := &storage.DynamoTeamMemberStorage{Client: client, TableName: "TeamMembers"}

	controller := NewRatingsController(ratings, lobbies, teams, members)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)
	return r, lobbies, teams, members
}

func mustSeedFinishedTeam(t *testing.T, lobbies *storage.DynamoLobbyStorage, teams *storage.DynamoTeamStorage, members *storage.DynamoTeamMemberStorage, lobbyID, teamID int, memberIDs ...int) {
	t.Helper()
	ctx := context.Background()

	if err := lobbies.Create(ctx, &storage.Lobby{ID: lobbyID, Title: "Contest", LeaderID: memberIDs[0], CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed lobby: %v", err)
	}
	if err := lobbies.Finish(ctx, lobbyID); err != nil {
		t.Fatalf("finish lobby: %v", err)
	}
	if err := teams.Create(ctx, &storage.Team{ID: teamID, LobbyID: lobbyID, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	for _, id := range memberIDs {
		if err := members.Add(ctx, teamID, id); err != nil {
			t.Fatalf("add member %d: %v", id, err)
		}
	}
}

func TestCreateRating_SelfRatingRejected(t *testing.T) {
	router, lobbies, teams, members := setupRatingsTestController(t)
	mustSeedFinishedTeam(t, lobbies, teams, members, 1, 1, 10, 11)

	contribution := 8
	w := ctesting.PerformRequest(router, http.MethodPost, "/api/ratings",
		models.RatingCreateRequest{TeamID: 1, RaterID: 10, TargetID: 10, Contribution: &contribution}, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRating_TeamNotFound(t *testing.T) {
	router, _, _, _ := setupRatingsTestController(t)

	contribution := 8
	w := ctesting.PerformRequest(router, http.MethodPost, "/api/ratings",
		models.RatingCreateRequest{TeamID: 999999, RaterID: 10, TargetID: 11, Contribution: &contribution}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRating_UnfinishedLobbyRejected(t *testing.T) {
	router, lobbies, teams, members := setupRatingsTestController(t)
	ctx := context.Background()

	if err := lobbies.Create(ctx, &storage.Lobby{ID: 2, Title: "Ongoing", LeaderID: 20, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed lobby: %v", err)
	}
	if err := teams.Create(ctx, &storage.Team{ID: 2, LobbyID: 2, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	for _, id := range []int{20, 21} {
		if err := members.Add(ctx, 2, id); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	contribution := 8
	w := ctesting.PerformRequest(router, http.MethodPost, "/api/ratings",
		models.RatingCreateRequest{TeamID: 2, RaterID: 20, TargetID: 21, Contribution: &contribution}, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRating_NonMemberRejected(t *testing.T) {
	router, lobbies, teams, members := setupRatingsTestController(t)
	mustSeedFinishedTeam(t, lobbies, teams, members, 3, 3, 30, 31)

	contribution := 7
	w := ctesting.PerformRequest(router, http.MethodPost, "/api/ratings",
		models.RatingCreateRequest{TeamID: 3, RaterID: 30, TargetID: 999, Contribution: &contribution}, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateRating_HappyPathRewritesPriorRating(t *testing.T) {
	router, lobbies, teams, members := setupRatingsTestController(t)
	mustSeedFinishedTeam(t, lobbies, teams, members, 4, 4, 40, 41)

	first := 3
	w1 := ctesting.PerformRequest(router, http.MethodPost, "/api/ratings",
		models.RatingCreateRequest{TeamID: 4, RaterID: 40, TargetID: 41, Contribution: &first, WouldWorkAgain: false}, nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w1.Code, w1.Body.String())
	}

	second := 9
	w2 := ctesting.PerformRequest(router, http.MethodPost, "/api/ratings",
		models.RatingCreateRequest{TeamID: 4, RaterID: 40, TargetID: 41, Contribution: &second, WouldWorkAgain: true}, nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
}
