package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
	"github.com/lennartwolf/tippliga/scoring"
)

type TipInput struct {
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
}

type TipService interface {
	PlaceTip(ctx context.Context, userID, groupID, matchID int, input TipInput) (*models.Tip, error)
	UpdateTip(ctx context.Context, userID, tipID int, input TipInput) (*models.Tip, error)
	ListUserTips(ctx context.Context, userID int) ([]models.Tip, error)
}

type tipService struct {
	tipRepo   repositories.TipRepository
	matchRepo repositories.MatchRepository
	groupRepo repositories.GroupRepository
}

func NewTipService(
	tipRepo repositories.TipRepository,
	matchRepo repositories.MatchRepository,
	groupRepo repositories.GroupRepository,
) TipService {
	return &tipService{
		tipRepo:   tipRepo,
		matchRepo: matchRepo,
		groupRepo: groupRepo,
	}
}

func (s *tipService) PlaceTip(ctx context.Context, userID, groupID, matchID int, input TipInput) (*models.Tip, error) {
	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return nil, ErrInvalidScoreline
	}

	if err := s.checkTippable(ctx, matchID); err != nil {
		return nil, err
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check group membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	tip := &models.Tip{
		UserID:    userID,
		GroupID:   groupID,
		MatchID:   matchID,
		HomeGoals: input.HomeGoals,
		AwayGoals: input.AwayGoals,
		Outcome:   scoring.OutcomeOf(input.HomeGoals, input.AwayGoals),
	}
	if err := s.tipRepo.Create(ctx, tip); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTipConflict):
			return nil, ErrTipConflict
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to create tip: %w", err)
	}
	return tip, nil
}

func (s *tipService) UpdateTip(ctx context.Context, userID, tipID int, input TipInput) (*models.Tip, error) {
	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return nil, ErrInvalidScoreline
	}

	tip, err := s.tipRepo.GetByID(ctx, tipID)
	if err != nil {
		if errors.Is(err, repositories.ErrTipNotFound) {
			return nil, ErrTipNotFound
		}
		return nil, fmt.Errorf("failed to load tip: %w", err)
	}
	if tip.UserID != userID {
		return nil, ErrForbiddenOperation
	}

	if err := s.checkTippable(ctx, tip.MatchID); err != nil {
		return nil, err
	}

	// Leaving the group forfeits the right to edit tips placed in it.
	isMember, err := s.groupRepo.IsMember(ctx, tip.GroupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check group membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotGroupMember
	}

	tip.HomeGoals = input.HomeGoals
	tip.AwayGoals = input.AwayGoals
	tip.Outcome = scoring.OutcomeOf(input.HomeGoals, input.AwayGoals)

	if err := s.tipRepo.UpdateScoreline(ctx, tip); err != nil {
		return nil, fmt.Errorf("failed to update tip: %w", err)
	}
	return tip, nil
}

func (s *tipService) ListUserTips(ctx context.Context, userID int) ([]models.Tip, error) {
	tips, err := s.tipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tips for user %d: %w", userID, err)
	}
	return tips, nil
}

// checkTippable rejects tips on fixtures that have kicked off or are
// placeholders; tips are frozen from kickoff on.
func (s *tipService) checkTippable(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match: %w", err)
	}
	if match.IsDummy {
		return ErrMatchNotTippable
	}
	if match.Started {
		return ErrMatchAlreadyStarted
	}
	return nil
}
