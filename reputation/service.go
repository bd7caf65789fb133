package reputation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teamrank/trs/logging"
	"github.com/teamrank/trs/metrics"
)

// User is the engine's minimal view of a participant; collaborators
// translate their own storage representation into this shape.
type User struct {
	ID   int
	Name string
}

// Loader is the read-only projection the engine is built against: a set
// of users and a list of rating rows. It never sees lobbies, teams,
// submissions, join requests, or invitations.
type Loader interface {
	AllUsers(ctx context.Context) ([]User, error)
	AllRatings(ctx context.Context) ([]Rating, error)
}

// Service is the engine façade, scoped to a single request. It memoizes
// the trust vector across calls made against the same instance but must
// never be reused across writes -- construct a fresh Service per request.
type Service struct {
	loader Loader
	cfg    TrustConfig

	mu       sync.Mutex
	users    []User
	edges    map[edgeKey]*CollapsedEdge
	allRows  []Rating
	trust    TrustVector
	loaded   bool
	computed bool
}

func NewService(loader Loader, cfg TrustConfig) *Service {
	return &Service{loader: loader, cfg: cfg.withDefaults()}
}

func (s *Service) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	users, err := s.loader.AllUsers(ctx)
	if err != nil {
		return fmt.Errorf("reputation: load users: %w", err)
	}
	ratings, err := s.loader.AllRatings(ctx)
	if err != nil {
		return fmt.Errorf("reputation: load ratings: %w", err)
	}

	s.users = users
	s.allRows = ratings
	s.edges = collapseEdges(ratings)
	s.loaded = true
	return nil
}

// TrustScores returns the global trust vector, computing and memoizing it
// on first call.
func (s *Service) TrustScores(ctx context.Context) (TrustVector, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.computed {
		return s.trust, nil
	}

	ids := make([]int, 0, len(s.users))
	for _, u := range s.users {
		ids = append(ids, u.ID)
	}
	ids = sortedUserIDs(ids)

	start := time.Now()
	trust, iterations, warning := computeTrust(ctx, ids, s.edges, s.cfg)
	if warning != nil {
		logging.Log.Warnf("REPUTATION: trust iteration did not converge after %d iterations (residual %g)",
			warning.Iterations, warning.Residual)
		metrics.RecordConvergenceFailure()
	}
	metrics.RecordTrustIteration(time.Since(start).Seconds(), iterations)

	s.trust = trust
	s.computed = true
	return s.trust, nil
}

// Reputation computes the weighted Reputation of userID. It returns
// ErrNotFound if userID isn't among the loaded users.
func (s *Service) Reputation(ctx context.Context, userID int) (Reputation, error) {
	trust, err := s.TrustScores(ctx)
	if err != nil {
		return Reputation{}, err
	}

	s.mu.Lock()
	found := false
	for _, u := range s.users {
		if u.ID == userID {
			found = true
			break
		}
	}
	rows := s.allRows
	s.mu.Unlock()

	if !found {
		return Reputation{}, ErrNotFound
	}

	return aggregate(userID, rows, trust), nil
}

// CollapsedEdges returns the collapsed (rater, target) edge set, the
// shape the HTTP graph-export endpoint renders directly.
func (s *Service) CollapsedEdges(ctx context.Context) ([]CollapsedEdge, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	edges := make([]CollapsedEdge, 0, len(s.edges))
	for _, e := range s.edges {
		edges = append(edges, *e)
	}
	return edges, nil
}

// Overall reduces userID's Reputation to a single 0..10 scalar.
func (s *Service) Overall(ctx context.Context, userID int) (float64, error) {
	rep, err := s.Reputation(ctx, userID)
	if err != nil {
		return 0, err
	}
	return overall(rep), nil
}

// RankLobbies sorts lobbies for viewerID's perspective.
func (s *Service) RankLobbies(ctx context.Context, viewerID int, lobbies []Lobby) ([]RankedLobby, error) {
	viewerRep, err := s.Reputation(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	viewerOverall := overall(viewerRep)

	repOf := func(userID int) Reputation {
		rep, err := s.Reputation(ctx, userID)
		if err != nil {
			return Reputation{}
		}
		return rep
	}

	return rankLobbies(viewerID, viewerOverall, lobbies, repOf), nil
}

// InviteCandidates returns up to five suggested invitees for a leader,
// given the set of user ids excluded (current members, the viewer, and
// anyone with a pending invitation from this team).
func (s *Service) InviteCandidates(ctx context.Context, viewerID int, excluded map[int]bool) ([]Candidate, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	viewerOverall, err := s.Overall(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(s.users))
	for _, u := range s.users {
		if excluded[u.ID] {
			continue
		}
		o, err := s.Overall(ctx, u.ID)
		if err != nil {
			continue
		}
		candidates = append(candidates, Candidate{UserID: u.ID, Name: u.Name, Overall: o})
	}

	return inviteCandidates(viewerOverall, candidates, excluded), nil
}
