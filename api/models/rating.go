package models

import "github.com/teamrank/trs/storage"

// RatingCreateRequest is the body for POST /api/ratings. Contribution and
// Communication are pointers so a missing axis is distinguishable from an
// explicit zero score.
type RatingCreateRequest struct {
	TeamID         int    `json:"team_id"`
	RaterID        int    `json:"rater_id"`
	TargetID       int    `json:"target_id"`
	Contribution   *int   `json:"contribution"`
	Communication  *int   `json:"communication"`
	WouldWorkAgain bool   `json:"would_work_again"`
	Comment        string `json:"comment"`
}

type RatingResponse struct {
	ID             string `json:"id"`
	TeamID         int    `json:"team_id"`
	RaterID        int    `json:"rater_id"`
	TargetID       int    `json:"target_id"`
	Contribution   *int   `json:"contribution"`
	Communication  *int   `json:"communication"`
	WouldWorkAgain bool   `json:"would_work_again"`
}

func TransformRatingFromStorage(r *storage.Rating) RatingResponse {
	return RatingResponse{
		ID:             r.ID,
		TeamID:         r.TeamID,
		RaterID:        r.RaterID,
		TargetID:       r.TargetID,
		Contribution:   r.Contribution,
		Communication:  r.Communication,
		WouldWorkAgain: r.WouldWorkAgain,
	}
}
