package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/collab/internal/collab/blob"
	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/idx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
)

const (
	maxProjectNameLen        = 200
	maxProjectDescriptionLen = 4000
)

type ProjectService struct {
	Store       store.Store
	Guard       *Guard
	Memberships *MembershipService
	Blobs       blob.Store
	Now         func() time.Time
}

// ProjectUpdate is a partial update; nil fields are left alone.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// CreateProject creates the project and makes actor its owner in the same
// transaction, so no project exists without an owner row.
func (s *ProjectService) CreateProject(ctx context.Context, actor domain.User, name, description string) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	name, err := validateProjectName(name)
	if err != nil {
		return domain.Project{}, err
	}
	if utf8.RuneCountInString(description) > maxProjectDescriptionLen {
		return domain.Project{}, invalid("description is too long")
	}

	now := clock(s.Now)
	p := domain.Project{
		ID:          idx.NewAt(now).String(),
		Name:        name,
		Description: description,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Projects().CreateProject(ctx, p); err != nil {
			return err
		}
		_, err := grant(ctx, tx.Memberships(), p.ID, actor.ID, domain.RoleOwner, now)
		return err
	})
	if err != nil {
		log.Error("failed to create project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project created", slog.String("project_id", p.ID))
	return p, nil
}

// ListProjects returns every project actor is a member of, with actor's role.
func (s *ProjectService) ListProjects(ctx context.Context, actor domain.User) ([]domain.ProjectWithRole, error) {
	projects, err := s.Store.Projects().ListProjectsForUser(ctx, actor.ID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list projects", slog.Any("error", err))
		return nil, err
	}
	if projects == nil {
		projects = []domain.ProjectWithRole{}
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID string, actor domain.User) (domain.ProjectWithRole, error) {
	p, m, err := s.Guard.authorize(ctx, projectID, actor)
	if err != nil {
		return domain.ProjectWithRole{}, err
	}
	return domain.ProjectWithRole{Project: p, Role: m.Role}, nil
}

// UpdateProject is open to any member.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, actor domain.User, upd ProjectUpdate) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	p, _, err := s.Guard.authorize(ctx, projectID, actor)
	if err != nil {
		return domain.Project{}, err
	}

	if upd.Name != nil {
		name, err := validateProjectName(*upd.Name)
		if err != nil {
			return domain.Project{}, err
		}
		p.Name = name
	}
	if upd.Description != nil {
		if utf8.RuneCountInString(*upd.Description) > maxProjectDescriptionLen {
			return domain.Project{}, invalid("description is too long")
		}
		p.Description = *upd.Description
	}
	p.UpdatedAt = clock(s.Now)

	if err := s.Store.Projects().UpdateProject(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, ErrProjectNotFound
		}
		log.Error("failed to update project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project updated", slog.String("project_id", p.ID))
	return p, nil
}

// DeleteProject removes the project and everything hanging off it. Document
// blobs are removed after the rows; a blob failure is logged, not returned.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string, actor domain.User) error {
	log := slogx.FromContext(ctx)

	if _, err := s.Guard.RequireRole(ctx, projectID, actor, domain.RoleOwner); err != nil {
		return err
	}

	if err := s.Store.Projects().DeleteProject(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		log.Error("failed to delete project", slog.Any("error", err))
		return err
	}

	if s.Blobs != nil {
		n, err := s.Blobs.DeletePrefix(ctx, projectBlobPrefix(projectID))
		if err != nil {
			log.Warn("failed to delete project blobs",
				slog.String("project_id", projectID),
				slog.Any("error", err),
			)
		} else {
			log.Debug("deleted project blobs", slog.Int("count", n))
		}
	}

	log.Info("project deleted", slog.String("project_id", projectID))
	return nil
}

// InviteUser adds an existing account as a participant, no token involved.
func (s *ProjectService) InviteUser(ctx context.Context, projectID string, actor domain.User, login string) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Guard.RequireRole(ctx, projectID, actor, domain.RoleOwner); err != nil {
		return domain.Membership{}, err
	}

	login = strings.TrimSpace(login)
	if login == "" {
		return domain.Membership{}, invalid("login is required")
	}

	u, err := s.Store.Users().GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.Membership{}, err
	}

	return s.Memberships.Grant(ctx, projectID, u.ID, domain.RoleParticipant)
}

func (s *ProjectService) ListMembers(ctx context.Context, projectID string, actor domain.User) ([]domain.Member, error) {
	if _, err := s.Guard.RequireRole(ctx, projectID, actor); err != nil {
		return nil, err
	}

	members, err := s.Store.Memberships().ListMembers(ctx, projectID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list members", slog.Any("error", err))
		return nil, err
	}
	return members, nil
}

func validateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", invalid("name is required")
	case utf8.RuneCountInString(name) > maxProjectNameLen:
		return "", invalid("name is too long")
	}
	return name, nil
}

func projectBlobPrefix(projectID string) string {
	return "projects/" + projectID + "/"
}
