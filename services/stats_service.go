package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
	"github.com/lennartwolf/tippliga/scoring"
)

// MatchResolver looks up a match by ID. The recompute job hands the
// aggregator a snapshot-backed resolver so a full run hits the database once;
// read paths can hand it the repository directly.
type MatchResolver interface {
	ResolveMatch(ctx context.Context, id int) (*models.Match, error)
}

// RepositoryMatchResolver adapts a MatchRepository to the resolver contract.
type RepositoryMatchResolver struct {
	Repo repositories.MatchRepository
}

func (r RepositoryMatchResolver) ResolveMatch(ctx context.Context, id int) (*models.Match, error) {
	return r.Repo.GetByID(ctx, id)
}

type StatsService interface {
	// AggregateGroup scores all of the user's tips belonging to groupID and
	// folds them into a single stats record. Tips on unresolved, unstarted or
	// dummy matches contribute to none of the counters. The zero record is
	// returned for an empty or fully-unscored tip set.
	AggregateGroup(ctx context.Context, tips []models.Tip, groupID int, matches MatchResolver) (models.GroupStat, error)
}

type statsService struct {
	logger *slog.Logger
}

func NewStatsService(logger *slog.Logger) StatsService {
	return &statsService{logger: logger}
}

func (s *statsService) AggregateGroup(ctx context.Context, tips []models.Tip, groupID int, matches MatchResolver) (models.GroupStat, error) {
	var stat models.GroupStat

	for _, tip := range tips {
		if tip.GroupID != groupID {
			continue
		}

		category, err := s.scoreTip(ctx, &tip, matches)
		if err != nil {
			return models.GroupStat{}, err
		}

		switch category {
		case scoring.Unscored:
			continue
		case scoring.Exact:
			stat.Correct++
		case scoring.TendencyStrict, scoring.TendencyLoose:
			stat.Tendency++
		case scoring.Wrong:
			stat.Wrong++
		}
		stat.Total += category.Points()
	}

	return stat, nil
}

// scoreTip resolves the tip's match and scores the prediction. A tip whose
// match no longer exists degrades to unscored instead of failing the whole
// aggregation; matches must never be assumed to exist.
func (s *statsService) scoreTip(ctx context.Context, tip *models.Tip, matches MatchResolver) (scoring.Category, error) {
	match, err := matches.ResolveMatch(ctx, tip.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			s.logger.Warn("tip references a missing match, treating as unscored",
				slog.Int("tip_id", tip.ID),
				slog.Int("match_id", tip.MatchID),
				slog.Int("user_id", tip.UserID),
			)
			return scoring.Unscored, nil
		}
		return scoring.Unscored, fmt.Errorf("failed to resolve match %d: %w", tip.MatchID, err)
	}

	var actual scoring.Scoreline
	if match.Scoreable() {
		actual = scoring.Scoreline{Home: *match.HomeGoals, Away: *match.AwayGoals}
	}
	return scoring.Score(tip.Predicted(), actual, match.Scoreable()), nil
}
