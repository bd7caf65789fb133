package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/teamrank/trs/api/models"
	ctesting "github.com/teamrank/trs/api/controllers/testing"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/reputation"
	"github.com/teamrank/trs/storage"
)

const testJWTSecret = "test-secret"

func mintViewerToken(t *testing.T, userID int) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": float64(userID)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + signed
}

func setupMatchingTestController(t *testing.T, loader *fakeLoader) (*gin.Engine, *storage.DynamoLobbyStorage, *storage.DynamoTeamStorage, *storage.DynamoTeamMemberStorage, *storage.DynamoInvitationStorage) {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("JWT_SECRET", testJWTSecret)

	client := newLocalDynamoClient(t)
	t.Cleanup(func() {
		cleanupDynamoTable(t, client, "Lobbies")
		cleanupDynamoTable(t, client, "Teams")
		cleanupDynamoTable(t, client, "TeamMembers")
		cleanupDynamoTable(t, client, "Invitations")
	})

	lobbies := &storage.DynamoLobbyStorage{Client: client, TableName: "Lobbies"}
	teams := &storage.DynamoTeamStorage{Client: client, TableName: "Teams"}
	members := &storage.DynamoTeamMemberStorage{Client: client, TableName: "TeamMembers"}
	invitations := &storage.DynamoInvitationStorage{Client: client, TableName: "Invitations"}

	controller := NewMatchingController(loader, lobbies, teams, members, invitations, reputation.TrustConfig{})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)
	return r, lobbies, teams, members, invitations
}

func TestRankLobbies_RequiresViewerAuth(t *testing.T) {
	router, _, _, _, _ := setupMatchingTestController(t, &fakeLoader{})

	w := ctesting.PerformRequest(router, http.MethodGet, "/api/lobbies/ranked", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRankLobbies_OrdersByClosenessThenJoinability(t *testing.T) {
	loader := &fakeLoader{
		users: []*storage.User{{ID: 1}, {ID: 2}, {ID: 99}},
	}
	router, lobbies, teams, members, _ := setupMatchingTestController(t, loader)
	ctx := context.Background()

	for i, lobbyID := range []int{1, 2} {
		_ = lobbies.Create(ctx, &storage.Lobby{ID: lobbyID, Title: "L", LeaderID: i + 1, CreatedAt: time.Now().UTC()})
		_ = teams.Create(ctx, &storage.Team{ID: lobbyID, LobbyID: lobbyID, CreatedAt: time.Now().UTC()})
		_ = members.Add(ctx, lobbyID, i+1)
	}

	w := ctesting.PerformRequest(router, http.MethodGet, "/api/lobbies/ranked", nil,
		map[string]string{"Authorization": mintViewerToken(t, 99)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var ranked []models.RankedLobbyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &ranked); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked lobbies, got %d", len(ranked))
	}
}

func TestInviteSuggestions_LeaderOnly(t *testing.T) {
	loader := &fakeLoader{users: []*storage.User{{ID: 1}, {ID: 2}}}
	router, lobbies, teams, members, _ := setupMatchingTestController(t, loader)
	ctx := context.Background()

	_ = lobbies.Create(ctx, &storage.Lobby{ID: 10, Title: "L", LeaderID: 1, CreatedAt: time.Now().UTC()})
	_ = teams.Create(ctx, &storage.Team{ID: 10, LobbyID: 10, CreatedAt: time.Now().UTC()})
	_ = members.Add(ctx, 10, 1)

	w := ctesting.PerformRequest(router, http.MethodGet, "/api/teams/10/invite-suggestions", nil,
		map[string]string{"Authorization": mintViewerToken(t, 2)})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInviteSuggestions_HappyPath(t *testing.T) {
	loader := &fakeLoader{users: []*storage.User{{ID: 1}, {ID: 2}, {ID: 3}}}
	router, lobbies, teams, members, _ := setupMatchingTestController(t, loader)
	ctx := context.Background()

	_ = lobbies.Create(ctx, &storage.Lobby{ID: 11, Title: "L", LeaderID: 1, CreatedAt: time.Now().UTC()})
	_ = teams.Create(ctx, &storage.Team{ID: 11, LobbyID: 11, CreatedAt: time.Now().UTC()})
	_ = members.Add(ctx, 11, 1)

	w := ctesting.PerformRequest(router, http.MethodGet, "/api/teams/11/invite-suggestions", nil,
		map[string]string{"Authorization": mintViewerToken(t, 1)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
