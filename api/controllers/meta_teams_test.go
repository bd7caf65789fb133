package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamrank/trs/api/models"
	ctesting "github.com/teamrank/trs/api/controllers/testing"
	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/storage"
)

func setupTeamMetaTestController(t *testing.T) *gin.Engine {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	client := newLocalDynamoClient(t)
	t.Cleanup(func() {
		cleanupDynamoTable(t, client, "Teams")
		cleanupDynamoTable(t, client, "TeamMembers")
	})

	s := &storage.DynamoTeamStorage{Client: client, TableName: "Teams"}
	members := &storage.DynamoTeamMemberStorage{Client: client, TableName: "TeamMembers"}
	controller := NewTeamMetaController(s, members)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller.RegisterRoutes(r)
	return r
}

func TestCreateTeam(t *testing.T) {
	router := setupTeamMetaTestController(t)

	t.Run("happy path", func(t *testing.T) {
		w := ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams",
			models.TeamCreateRequest{ID: 1, LobbyID: 1},
			map[string]string{"x-admin-token": testAdminToken})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("duplicate ID conflicts", func(t *testing.T) {
		w := ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams",
			models.TeamCreateRequest{ID: 1, LobbyID: 1},
			map[string]string{"x-admin-token": testAdminToken})
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestLockTeam(t *testing.T) {
	router := setupTeamMetaTestController(t)

	ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams",
		models.TeamCreateRequest{ID: 5, LobbyID: 1},
		map[string]string{"x-admin-token": testAdminToken})

	w := ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams/5/lock", nil,
		map[string]string{"x-admin-token": testAdminToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	got := ctesting.PerformRequest(router, http.MethodGet, "/api/meta/teams/5", nil, nil)
	var team models.TeamResponse
	if err := json.Unmarshal(got.Body.Bytes(), &team); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !team.Locked {
		t.Errorf("expected team to be locked")
	}
}

func TestAddTeamMember(t *testing.T) {
	router := setupTeamMetaTestController(t)

	ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams",
		models.TeamCreateRequest{ID: 7, LobbyID: 1},
		map[string]string{"x-admin-token": testAdminToken})

	w := ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams/7/members/42", nil,
		map[string]string{"x-admin-token": testAdminToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	t.Run("invalid user id rejected", func(t *testing.T) {
		w := ctesting.PerformRequest(router, http.MethodPost, "/api/meta/teams/7/members/notanumber", nil,
			map[string]string{"x-admin-token": testAdminToken})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetTeam_NotFound(t *testing.T) {
	router := setupTeamMetaTestController(t)

	w := ctesting.PerformRequest(router, http.MethodGet, fmt.Sprintf("/api/meta/teams/%d", 999999), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
