package models

import "github.com/teamrank/trs/reputation"

// ReputationResponse is the JSON shape for GET /api/users/:id/reputation.
type ReputationResponse struct {
	UserID              int      `json:"user_id"`
	ContributionAvg     float64  `json:"contribution_avg"`
	CommunicationAvg    float64  `json:"communication_avg"`
	WouldWorkAgainRatio *float64 `json:"would_work_again_ratio"`
	RatingCount         int      `json:"rating_count"`
	Overall             float64  `json:"overall"`
}

func TransformReputationFromEngine(userID int, rep reputation.Reputation, overall float64) ReputationResponse {
	return ReputationResponse{
		UserID:              userID,
		ContributionAvg:     rep.ContributionAvg,
		CommunicationAvg:    rep.CommunicationAvg,
		WouldWorkAgainRatio: rep.WouldWorkAgainRatio,
		RatingCount:         rep.RatingCount,
		Overall:             overall,
	}
}
