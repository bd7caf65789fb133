package reputation

import "time"

// Rating is the engine's own view of a rating row, decoupled from the
// storage package's dynamodbav-tagged representation. Contribution and
// Communication are nil when the axis was skipped.
type Rating struct {
	TeamID         int
	RaterID        int
	TargetID       int
	Contribution   *int
	Communication  *int
	WouldWorkAgain bool
	CreatedAt      time.Time
}

// CollapsedEdge is the averaged local trust for one (rater, target) pair,
// folded from every rating row sharing that ordered pair across all teams.
type CollapsedEdge struct {
	Rater      int
	Target     int
	Weight     float64 // average local trust, in (0,1]
	Count      int     // pre-collapse row count
	ContribSum float64
	ContribN   int
	CommSum    float64
	CommN      int
	WWASum     float64
	WWAN       int
}

// ContribAvg returns the per-axis mean over rows that carried a
// contribution value, or (0, false) if none did.
func (e CollapsedEdge) ContribAvg() (float64, bool) {
	if e.ContribN == 0 {
		return 0, false
	}
	return e.ContribSum / float64(e.ContribN), true
}

func (e CollapsedEdge) CommAvg() (float64, bool) {
	if e.CommN == 0 {
		return 0, false
	}
	return e.CommSum / float64(e.CommN), true
}

func (e CollapsedEdge) WWARatio() (float64, bool) {
	if e.WWAN == 0 {
		return 0, false
	}
	return e.WWASum / float64(e.WWAN), true
}

// TrustVector maps user id to its share of global trust. Components are
// nonnegative and sum to 1 whenever the vector is nonempty.
type TrustVector map[int]float64

// Reputation is the weighted aggregate opinion of a target user.
type Reputation struct {
	ContributionAvg     float64
	CommunicationAvg    float64
	WouldWorkAgainRatio *float64
	RatingCount         int
}

// Lobby is the minimal projection the Matcher needs; it does not depend
// on the storage package so the engine stays a pure library.
type Lobby struct {
	ID            int
	LeaderID      int
	Finished      bool
	TeamLocked    bool
	MemberIDs     []int
	OriginalIndex int
}

// RankedLobby is one Matcher output row.
type RankedLobby struct {
	Lobby    Lobby
	Joinable bool
	TeamRep  float64
}

// Candidate is one Matcher invite-suggestion output row.
type Candidate struct {
	UserID  int
	Name    string
	Overall float64
}
