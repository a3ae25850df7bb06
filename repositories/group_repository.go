package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/lennartwolf/tippliga/models"
)

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupNameConflict   = errors.New("group name conflict")
	ErrGroupMemberConflict = errors.New("user is already a member of the group")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	AddMember(ctx context.Context, exec SQLExecutor, groupID, userID int) error
	RemoveMember(ctx context.Context, groupID, userID int) error
	IsMember(ctx context.Context, groupID, userID int) (bool, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO groups (name, slug, is_public, founder_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		group.Name, group.Slug, group.IsPublic, group.FounderID,
	).Scan(&group.ID, &group.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return ErrGroupNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.slug, g.is_public, g.founder_id, g.created_at,
		       (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)
		FROM groups g
		WHERE g.id = $1`
	return r.scanGroup(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.slug, g.is_public, g.founder_id, g.created_at,
		       (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)
		FROM groups g
		WHERE g.slug = $1`
	return r.scanGroup(r.db.QueryRowContext(ctx, query, slug))
}

func (r *postgresGroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.slug, g.is_public, g.founder_id, g.created_at,
		       (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)
		FROM groups g
		ORDER BY g.name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		group, errScan := r.scanGroup(rows)
		if errScan != nil {
			return nil, errScan
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (r *postgresGroupRepository) AddMember(ctx context.Context, exec SQLExecutor, groupID, userID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, NOW())`, groupID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrGroupMemberConflict
			case "23503":
				return ErrGroupNotFound
			}
		}
		return err
	}
	return nil
}

func (r *postgresGroupRepository) RemoveMember(ctx context.Context, groupID, userID int) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGroupNotFound)
}

func (r *postgresGroupRepository) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresGroupRepository) scanGroup(rowScanner interface{ Scan(...interface{}) error }) (*models.Group, error) {
	var g models.Group
	err := rowScanner.Scan(
		&g.ID, &g.Name, &g.Slug, &g.IsPublic, &g.FounderID, &g.CreatedAt, &g.MemberCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}
