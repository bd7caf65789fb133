package controllers

import (
	"context"

	"github.com/teamrank/trs/api/models"
	"github.com/teamrank/trs/reputation"
	"github.com/teamrank/trs/storage"
)

// engineLoader adapts storage.Loader to reputation.Loader so the engine
// never imports the storage package's dynamodbav-tagged types.
type engineLoader struct {
	store storage.Loader
}

func (l *engineLoader) AllUsers(ctx context.Context) ([]reputation.User, error) {
	users, err := l.store.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reputation.User, 0, len(users))
	for _, u := range users {
		out = append(out, reputation.User{ID: u.ID, Name: u.Name})
	}
	return out, nil
}

func (l *engineLoader) AllRatings(ctx context.Context) ([]reputation.Rating, error) {
	ratings, err := l.store.AllRatings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reputation.Rating, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, reputation.Rating{
			TeamID:         r.TeamID,
			RaterID:        r.RaterID,
			TargetID:       r.TargetID,
			Contribution:   r.Contribution,
			Communication:  r.Communication,
			WouldWorkAgain: r.WouldWorkAgain,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}

// newService builds a fresh, request-scoped reputation.Service. The
// engine is never shared across requests -- every controller call that
// needs it constructs its own.
func newService(store storage.Loader, cfg reputation.TrustConfig) *reputation.Service {
	return reputation.NewService(&engineLoader{store: store}, cfg)
}

// graphEdgesFromCollapsed renders the engine's collapsed edges into the
// GET /graph response shape.
func graphEdgesFromCollapsed(edges []reputation.CollapsedEdge) []models.GraphEdge {
	out := make([]models.GraphEdge, 0, len(edges))
	for _, e := range edges {
		edge := models.GraphEdge{Source: e.Rater, Target: e.Target, Weight: e.Weight, Count: e.Count}
		if v, ok := e.ContribAvg(); ok {
			edge.ContributionAvg = &v
		}
		if v, ok := e.CommAvg(); ok {
			edge.CommunicationAvg = &v
		}
		if v, ok := e.WWARatio(); ok {
			edge.WouldWorkAgainRatio = &v
		}
		out = append(out, edge)
	}
	return out
}
