package reputation

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRankLobbies_MatcherScenario(t *testing.T) {
	convey.Convey("Given a viewer with overall reputation 5.0 and three lobbies", t, func() {
		viewerID := 99
		viewerRep := 5.0

		repByTeam := map[int]float64{
			1: 4.8, // L1: joinable, closest to viewer
			2: 9.0, // L2: joinable, further away
			3: 5.0, // L3: viewer is a member, not joinable
		}
		repOf := func(userID int) Reputation {
			c := repByTeam[userID]
			return Reputation{ContributionAvg: c, CommunicationAvg: c}
		}

		lobbies := []Lobby{
			{ID: 1, LeaderID: 1, MemberIDs: []int{1}, OriginalIndex: 0},
			{ID: 2, LeaderID: 2, MemberIDs: []int{2}, OriginalIndex: 1},
			{ID: 3, LeaderID: 3, MemberIDs: []int{viewerID}, OriginalIndex: 2},
		}

		convey.Convey("When ranked from the viewer's perspective", func() {
			ranked := rankLobbies(viewerID, viewerRep, lobbies, repOf)

			convey.Convey("Then the order is L1, L2, L3", func() {
				convey.So(len(ranked), convey.ShouldEqual, 3)
				convey.So(ranked[0].Lobby.ID, convey.ShouldEqual, 1)
				convey.So(ranked[1].Lobby.ID, convey.ShouldEqual, 2)
				convey.So(ranked[2].Lobby.ID, convey.ShouldEqual, 3)
			})

			convey.Convey("Then only L1 and L2 are joinable", func() {
				convey.So(ranked[0].Joinable, convey.ShouldBeTrue)
				convey.So(ranked[1].Joinable, convey.ShouldBeTrue)
				convey.So(ranked[2].Joinable, convey.ShouldBeFalse)
			})
		})
	})
}

func TestIsJoinable(t *testing.T) {
	convey.Convey("Given lobbies in various states", t, func() {
		viewerID := 7

		convey.Convey("A finished lobby is never joinable", func() {
			l := Lobby{Finished: true}
			convey.So(isJoinable(l, viewerID), convey.ShouldBeFalse)
		})

		convey.Convey("A locked team is never joinable", func() {
			l := Lobby{TeamLocked: true}
			convey.So(isJoinable(l, viewerID), convey.ShouldBeFalse)
		})

		convey.Convey("The lobby's own leader cannot join it", func() {
			l := Lobby{LeaderID: viewerID}
			convey.So(isJoinable(l, viewerID), convey.ShouldBeFalse)
		})

		convey.Convey("An existing member cannot join again", func() {
			l := Lobby{MemberIDs: []int{viewerID}}
			convey.So(isJoinable(l, viewerID), convey.ShouldBeFalse)
		})

		convey.Convey("An open lobby with no relation to the viewer is joinable", func() {
			l := Lobby{LeaderID: 1, MemberIDs: []int{2, 3}}
			convey.So(isJoinable(l, viewerID), convey.ShouldBeTrue)
		})
	})
}

func TestInviteCandidates(t *testing.T) {
	convey.Convey("Given a viewer with overall 5.0 and a pool of candidates", t, func() {
		candidates := []Candidate{
			{UserID: 1, Name: "Bob", Overall: 5.1},
			{UserID: 2, Name: "alice", Overall: 5.1},
			{UserID: 3, Name: "Carol", Overall: 9.0},
			{UserID: 4, Name: "Dave", Overall: 0.0},
			{UserID: 5, Name: "Eve", Overall: 5.0},
			{UserID: 6, Name: "Frank", Overall: 4.9},
			{UserID: 7, Name: "Grace", Overall: 4.8},
		}
		excluded := map[int]bool{4: true}

		convey.Convey("When ranked by closeness then name", func() {
			got := inviteCandidates(5.0, candidates, excluded)

			convey.Convey("Then the excluded candidate is absent and the list is capped at five", func() {
				convey.So(len(got), convey.ShouldEqual, 5)
				for _, c := range got {
					convey.So(c.UserID, convey.ShouldNotEqual, 4)
				}
			})

			convey.Convey("Then the closest overall wins, ties broken by lowercase name", func() {
				convey.So(got[0].UserID, convey.ShouldEqual, 5) // exact match
				convey.So(got[1].Name, convey.ShouldEqual, "alice")
				convey.So(got[2].Name, convey.ShouldEqual, "Bob")
			})
		})
	})
}

func TestTeamRep_EmptyTeamIsZero(t *testing.T) {
	convey.Convey("Given an empty team", t, func() {
		convey.Convey("Then teamRep is zero", func() {
			convey.So(teamRep(nil), convey.ShouldEqual, 0.0)
		})
	})
}
