package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lennartwolf/tippliga/models"
	"github.com/lennartwolf/tippliga/repositories"
)

type CreateGroupInput struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

type GroupService interface {
	CreateGroup(ctx context.Context, founderID int, input CreateGroupInput) (*models.Group, error)
	GetGroup(ctx context.Context, id int) (*models.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	JoinGroup(ctx context.Context, groupID, userID int) error
	LeaveGroup(ctx context.Context, groupID, userID int) error
}

type groupService struct {
	db        *sql.DB
	groupRepo repositories.GroupRepository
}

func NewGroupService(db *sql.DB, groupRepo repositories.GroupRepository) GroupService {
	return &groupService{db: db, groupRepo: groupRepo}
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CreateGroup stores the group and makes the founder its first member in one
// transaction: a group without its founder on the member list must not exist.
func (s *groupService) CreateGroup(ctx context.Context, founderID int, input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group := &models.Group{
		Name:      name,
		Slug:      slugify(name),
		IsPublic:  input.IsPublic,
		FounderID: founderID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.groupRepo.Create(ctx, tx, group); err != nil {
		if errors.Is(err, repositories.ErrGroupNameConflict) {
			return nil, ErrGroupNameConflict
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	if err := s.groupRepo.AddMember(ctx, tx, group.ID, founderID); err != nil {
		return nil, fmt.Errorf("failed to add founder to group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}
	group.MemberCount = 1
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group %d: %w", id, err)
	}
	return group, nil
}

func (s *groupService) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group %q: %w", slug, err)
	}
	return group, nil
}

func (s *groupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *groupService) JoinGroup(ctx context.Context, groupID, userID int) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.groupRepo.AddMember(ctx, nil, groupID, userID); err != nil {
		if errors.Is(err, repositories.ErrGroupMemberConflict) {
			return ErrAlreadyGroupMember
		}
		return fmt.Errorf("failed to join group: %w", err)
	}
	return nil
}

func (s *groupService) LeaveGroup(ctx context.Context, groupID, userID int) error {
	if err := s.groupRepo.RemoveMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return ErrNotGroupMember
		}
		return fmt.Errorf("failed to leave group: %w", err)
	}
	return nil
}
