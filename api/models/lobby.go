package models

import (
	"time"

	"github.com/teamrank/trs/storage"
)

type LobbyResponse struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	ContestLink string     `json:"contest_link"`
	LeaderID    int        `json:"leader_id"`
	Finished    bool       `json:"finished"`
	FinishedAt  *time.Time `json:"finished_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func TransformLobbyFromStorage(l *storage.Lobby) LobbyResponse {
	return LobbyResponse{
		ID:          l.ID,
		Title:       l.Title,
		ContestLink: l.ContestLink,
		LeaderID:    l.LeaderID,
		Finished:    l.Finished,
		FinishedAt:  l.FinishedAt,
		CreatedAt:   l.CreatedAt,
	}
}

// RankedLobbyResponse decorates a lobby with the Matcher's annotations.
type RankedLobbyResponse struct {
	LobbyResponse
	Joinable bool    `json:"joinable"`
	TeamRep  float64 `json:"team_rep"`
}

type LobbyCreateRequest struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ContestLink string `json:"contest_link"`
	LeaderID    int    `json:"leader_id"`
}

type TeamResponse struct {
	ID        int       `json:"id"`
	LobbyID   int       `json:"lobby_id"`
	Locked    bool      `json:"locked"`
	CreatedAt time.Time `json:"created_at"`
}

func TransformTeamFromStorage(t *storage.Team) TeamResponse {
	return TeamResponse{
		ID:        t.ID,
		LobbyID:   t.LobbyID,
		Locked:    t.Locked,
		CreatedAt: t.CreatedAt,
	}
}

type TeamCreateRequest struct {
	ID      int `json:"id"`
	LobbyID int `json:"lobby_id"`
}
