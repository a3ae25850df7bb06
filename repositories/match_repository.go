package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lennartwolf/tippliga/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	// RecordResult stores the final scoreline and marks the fixture started,
	// locking its tips and making it eligible for scoring.
	RecordResult(ctx context.Context, id, homeGoals, awayGoals int) error
	MarkStarted(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (home_team, away_team, kickoff, started, is_dummy)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		match.HomeTeam, match.AwayTeam, match.Kickoff, match.Started, match.IsDummy,
	).Scan(&match.ID)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, home_team, away_team, home_goals, away_goals, kickoff, started, is_dummy
		FROM matches
		WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT id, home_team, away_team, home_goals, away_goals, kickoff, started, is_dummy
		FROM matches
		ORDER BY kickoff ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, errScan := r.scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) RecordResult(ctx context.Context, id, homeGoals, awayGoals int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE matches
		SET home_goals = $1, away_goals = $2, started = TRUE
		WHERE id = $3`, homeGoals, awayGoals, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MarkStarted(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE matches SET started = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeGoals, &m.AwayGoals,
		&m.Kickoff, &m.Started, &m.IsDummy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}
