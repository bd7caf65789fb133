package storage

import "context"

// Loader is the read-only projection the reputation engine is built
// against. It never sees lobbies, teams, submissions, join requests, or
// invitations -- only the two collections that feed trust propagation.
type Loader interface {
	AllUsers(ctx context.Context) ([]*User, error)
	AllRatings(ctx context.Context) ([]*Rating, error)
}

// Store composes the concrete Dynamo-backed collaborators and satisfies
// Loader directly, so the engine can be handed a *Store wherever a Loader
// is expected without an adapter type.
type Store struct {
	Users        UserStorage
	Lobbies      LobbyStorage
	Teams        TeamStorage
	TeamMembers  TeamMemberStorage
	Submissions  SubmissionStorage
	Ratings      RatingStorage
	JoinRequests JoinRequestStorage
	Invitations  InvitationStorage
}

func (s *Store) AllUsers(ctx context.Context) ([]*User, error) {
	return s.Users.GetAll(ctx)
}

func (s *Store) AllRatings(ctx context.Context) ([]*Rating, error) {
	return s.Ratings.GetAll(ctx)
}
