package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/lennartwolf/tippliga/models"
)

var (
	ErrTipNotFound = errors.New("tip not found")
	ErrTipConflict = errors.New("tip already exists for this match and group")
)

type TipRepository interface {
	Create(ctx context.Context, tip *models.Tip) error
	GetByID(ctx context.Context, id int) (*models.Tip, error)
	ListByUser(ctx context.Context, userID int) ([]models.Tip, error)
	UpdateScoreline(ctx context.Context, tip *models.Tip) error
}

type postgresTipRepository struct {
	db *sql.DB
}

func NewPostgresTipRepository(db *sql.DB) TipRepository {
	return &postgresTipRepository{db: db}
}

func (r *postgresTipRepository) Create(ctx context.Context, tip *models.Tip) error {
	query := `
		INSERT INTO tips (user_id, group_id, match_id, home_goals, away_goals, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		tip.UserID, tip.GroupID, tip.MatchID, tip.HomeGoals, tip.AwayGoals, tip.Outcome,
	).Scan(&tip.ID, &tip.CreatedAt, &tip.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // one tip per (user, match, group)
				return ErrTipConflict
			case "23503":
				return ErrMatchNotFound
			}
		}
		return err
	}
	return nil
}

func (r *postgresTipRepository) GetByID(ctx context.Context, id int) (*models.Tip, error) {
	query := `
		SELECT id, user_id, group_id, match_id, home_goals, away_goals, outcome, created_at, updated_at
		FROM tips
		WHERE id = $1`
	return r.scanTip(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTipRepository) ListByUser(ctx context.Context, userID int) ([]models.Tip, error) {
	query := `
		SELECT id, user_id, group_id, match_id, home_goals, away_goals, outcome, created_at, updated_at
		FROM tips
		WHERE user_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tips := make([]models.Tip, 0)
	for rows.Next() {
		tip, errScan := r.scanTip(rows)
		if errScan != nil {
			return nil, errScan
		}
		tips = append(tips, *tip)
	}
	return tips, rows.Err()
}

func (r *postgresTipRepository) UpdateScoreline(ctx context.Context, tip *models.Tip) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tips
		SET home_goals = $1, away_goals = $2, outcome = $3, updated_at = NOW()
		WHERE id = $4`,
		tip.HomeGoals, tip.AwayGoals, tip.Outcome, tip.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTipNotFound)
}

func (r *postgresTipRepository) scanTip(rowScanner interface{ Scan(...interface{}) error }) (*models.Tip, error) {
	var t models.Tip
	err := rowScanner.Scan(
		&t.ID, &t.UserID, &t.GroupID, &t.MatchID, &t.HomeGoals, &t.AwayGoals,
		&t.Outcome, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTipNotFound
		}
		return nil, err
	}
	return &t, nil
}
