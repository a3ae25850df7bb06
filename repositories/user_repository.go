package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lennartwolf/tippliga/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListIDs(ctx context.Context) ([]int, error)
	ListByGroup(ctx context.Context, groupID int) ([]*models.User, error)
	UpdateAvatar(ctx context.Context, userID int, avatarURL string) error
	// UpdateAggregates persists the recompute job's output for one user as a
	// single row update: the per-group stats map plus the derived totals
	// always change together.
	UpdateAggregates(ctx context.Context, userID int, stats map[int]models.GroupStat, totalPoints, maxPoints int) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, avatar_url, group_stats, total_points, max_points, created_at
		FROM users
		WHERE id = $1`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	groups, err := r.groupIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load group memberships for user %d: %w", id, err)
	}
	user.Groups = groups

	return user, nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, avatar_url, group_stats, total_points, max_points, created_at
		FROM users
		WHERE email = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresUserRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.avatar_url, u.group_stats, u.total_points, u.max_points, u.created_at
		FROM users u
		JOIN group_members gm ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at ASC, u.id ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, errScan := r.scanUser(rows)
		if errScan != nil {
			return nil, errScan
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) UpdateAvatar(ctx context.Context, userID int, avatarURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_url = $1 WHERE id = $2`, avatarURL, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateAggregates(ctx context.Context, userID int, stats map[int]models.GroupStat, totalPoints, maxPoints int) error {
	if stats == nil {
		stats = map[int]models.GroupStat{}
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode group stats for user %d: %w", userID, err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET group_stats = $1, total_points = $2, max_points = $3
		WHERE id = $4`,
		statsJSON, totalPoints, maxPoints, userID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) groupIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT group_id FROM group_members
		WHERE user_id = $1
		ORDER BY joined_at ASC, group_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresUserRepository) scanUser(rowScanner interface{ Scan(...interface{}) error }) (*models.User, error) {
	var user models.User
	var statsJSON []byte

	err := rowScanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.AvatarURL, &statsJSON, &user.TotalPoints, &user.MaxPoints, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &user.GroupStats); err != nil {
			return nil, fmt.Errorf("failed to decode group stats for user %d: %w", user.ID, err)
		}
	}
	return &user, nil
}
