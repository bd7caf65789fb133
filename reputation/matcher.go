package reputation

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// teamRep computes the mean overall() across a set of member reputations,
// or 0 for an empty team.
func teamRep(memberReps []Reputation) float64 {
	if len(memberReps) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range memberReps {
		sum += overall(r)
	}
	return round2(sum / float64(len(memberReps)))
}

func isJoinable(l Lobby, viewerID int) bool {
	if l.Finished || l.TeamLocked {
		return false
	}
	if l.LeaderID == viewerID {
		return false
	}
	return !lo.Contains(l.MemberIDs, viewerID)
}

// rankLobbies sorts lobbies by (joinable first, |team_rep - viewer_rep|,
// original_index), the last being a stable tiebreaker over a
// created-at-descending baseline ordering.
func rankLobbies(viewerID int, viewerRep float64, lobbies []Lobby, repOf func(userID int) Reputation) []RankedLobby {
	ranked := make([]RankedLobby, 0, len(lobbies))
	for _, l := range lobbies {
		memberReps := make([]Reputation, 0, len(l.MemberIDs))
		for _, m := range l.MemberIDs {
			memberReps = append(memberReps, repOf(m))
		}
		ranked = append(ranked, RankedLobby{
			Lobby:    l,
			Joinable: isJoinable(l, viewerID),
			TeamRep:  teamRep(memberReps),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i], ranked[j]

		ki := joinableKey(ri.Joinable)
		kj := joinableKey(rj.Joinable)
		if ki != kj {
			return ki < kj
		}

		di := abs(ri.TeamRep - viewerRep)
		dj := abs(rj.TeamRep - viewerRep)
		if di != dj {
			return di < dj
		}

		return ri.Lobby.OriginalIndex < rj.Lobby.OriginalIndex
	})

	return ranked
}

func joinableKey(joinable bool) int {
	if joinable {
		return 0
	}
	return 1
}

// inviteCandidates returns the top five remaining users ordered by
// (|overall(u) - overall(viewer)|, lower(name)), excluding current
// members, the viewer, and anyone with a pending invitation.
func inviteCandidates(viewerOverall float64, candidates []Candidate, excluded map[int]bool) []Candidate {
	remaining := lo.Filter(candidates, func(c Candidate, _ int) bool {
		return !excluded[c.UserID]
	})

	sort.SliceStable(remaining, func(i, j int) bool {
		di := abs(remaining[i].Overall - viewerOverall)
		dj := abs(remaining[j].Overall - viewerOverall)
		if di != dj {
			return di < dj
		}
		return strings.ToLower(remaining[i].Name) < strings.ToLower(remaining[j].Name)
	})

	if len(remaining) > 5 {
		remaining = remaining[:5]
	}
	return remaining
}
