package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/idx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
)

// MembershipService is the ledger of who holds which role on which project.
// Rows are only ever added; there is no revoke.
type MembershipService struct {
	Store store.Store
	Now   func() time.Time
}

// Grant records that userID holds role on projectID. A second grant for
// the same pair fails with ErrDuplicateMembership, whether the pre-check
// catches it or the unique constraint does.
func (s *MembershipService) Grant(ctx context.Context, projectID, userID string, role domain.Role) (domain.Membership, error) {
	return grant(ctx, s.Store.Memberships(), projectID, userID, role, clock(s.Now))
}

// Get returns the membership for the pair, or store.ErrNotFound.
func (s *MembershipService) Get(ctx context.Context, projectID, userID string) (domain.Membership, error) {
	return s.Store.Memberships().GetMembership(ctx, projectID, userID)
}

// grant works against any Memberships repo so callers can run it inside
// their own transaction.
func grant(ctx context.Context, repo store.Memberships, projectID, userID string, role domain.Role, now time.Time) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return domain.Membership{}, invalid("unknown role %q", role)
	}

	_, err := repo.GetMembership(ctx, projectID, userID)
	switch {
	case err == nil:
		return domain.Membership{}, ErrDuplicateMembership
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to check membership", slog.Any("error", err))
		return domain.Membership{}, err
	}

	m := domain.Membership{
		ID:        idx.NewAt(now).String(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		GrantedAt: now,
	}
	if err := repo.CreateMembership(ctx, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Membership{}, ErrDuplicateMembership
		}
		log.Error("failed to create membership", slog.Any("error", err))
		return domain.Membership{}, err
	}

	log.Info("membership granted",
		slog.String("project_id", projectID),
		slog.String("member_id", userID),
		slog.String("role", role.String()),
	)
	return m, nil
}
