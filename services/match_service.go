package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
)

type CreateMatchInput struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Kickoff  time.Time `json:"kickoff"`
	IsDummy  bool      `json:"is_dummy"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	ListMatches(ctx context.Context) ([]*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	// RecordResult is the ingestion hook for final scores: it stores the
	// scoreline and locks the fixture. Scores reach the leaderboards with the
	// next recompute run.
	RecordResult(ctx context.Context, id, homeGoals, awayGoals int) error
	// MarkStarted locks tips on a fixture at kickoff, before a result exists.
	MarkStarted(ctx context.Context, id int) error
}

type matchService struct {
	matchRepo repositories.MatchRepository
}

func NewMatchService(matchRepo repositories.MatchRepository) MatchService {
	return &matchService{matchRepo: matchRepo}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	homeTeam := strings.TrimSpace(input.HomeTeam)
	awayTeam := strings.TrimSpace(input.AwayTeam)
	if homeTeam == "" || awayTeam == "" {
		return nil, ErrValidationFailed
	}

	match := &models.Match{
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		Kickoff:  input.Kickoff,
		IsDummy:  input.IsDummy,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) RecordResult(ctx context.Context, id, homeGoals, awayGoals int) error {
	if homeGoals < 0 || awayGoals < 0 {
		return ErrInvalidScoreline
	}
	if err := s.matchRepo.RecordResult(ctx, id, homeGoals, awayGoals); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to record result for match %d: %w", id, err)
	}
	return nil
}

func (s *matchService) MarkStarted(ctx context.Context, id int) error {
	if err := s.matchRepo.MarkStarted(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to mark match %d started: %w", id, err)
	}
	return nil
}
