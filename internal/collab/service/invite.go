package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/notify"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/cryptox"
	"github.com/aussiebroadwan/collab/pkg/idx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/aussiebroadwan/collab/pkg/tracex"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultInviteValidity is how long a share link stays redeemable.
const DefaultInviteValidity = 7 * 24 * time.Hour

type InviteConfig struct {
	// FrontendURL is the base of generated join links, without the /join path.
	FrontendURL string
	Validity    time.Duration
}

// Notifier hands an invitation off for delivery. It must not block.
type Notifier interface {
	Dispatch(ctx context.Context, inv notify.Invite)
}

// Invitation is what the inviter gets back from CreateInvite.
type Invitation struct {
	Token     string
	ProjectID string
	Email     string
	JoinLink  string
	ExpiresAt time.Time
}

type InviteService struct {
	Store    store.Store
	Guard    *Guard
	Notifier Notifier // optional
	Config   InviteConfig
	Now      func() time.Time
}

// CreateInvite issues a single-use token that lets email join projectID as a
// participant. Only the project's owner may call it.
func (s *InviteService) CreateInvite(ctx context.Context, projectID, email string, actor domain.User) (Invitation, error) {
	ctx, span := tracex.Start(ctx, "InviteService.CreateInvite")
	defer span.End()
	span.SetAttributes(attribute.String("project.id", projectID))

	log := slogx.FromContext(ctx)

	// 1. Owner only.
	project, _, err := s.Guard.authorize(ctx, projectID, actor, domain.RoleOwner)
	if err != nil {
		return Invitation{}, err
	}

	// 2. Validate the invitee address.
	email = domain.NormalizeEmail(email)
	if email == "" {
		return Invitation{}, invalid("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invitation{}, invalid("email is not a valid address")
	}

	// 3. Mint and persist.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return Invitation{}, tracex.RecordError(span, err)
	}

	now := clock(s.Now)
	inv := domain.InviteToken{
		ID:        idx.NewAt(now).String(),
		Token:     token,
		ProjectID: projectID,
		Email:     email,
		CreatedBy: actor.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.validity()),
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		log.Error("failed to create invite", slog.Any("error", err))
		return Invitation{}, tracex.RecordError(span, err)
	}

	link := s.joinLink(token, projectID)

	log.Info("invite created",
		slog.String("project_id", projectID),
		slog.String("invite_id", inv.ID),
		slog.String("token_fp", cryptox.FingerprintToken(token)),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 4. Tell the invitee. Delivery is best effort and off the request path.
	if s.Notifier != nil {
		s.Notifier.Dispatch(ctx, notify.Invite{
			Recipient:   email,
			ProjectName: project.Name,
			Inviter:     actor.Login,
			JoinLink:    link,
			ExpiresAt:   inv.ExpiresAt,
		})
	}

	return Invitation{
		Token:     token,
		ProjectID: projectID,
		Email:     email,
		JoinLink:  link,
		ExpiresAt: inv.ExpiresAt,
	}, nil
}

// RedeemInvite consumes token and makes user a participant of projectID.
// The invite is marked used and the membership inserted in one transaction,
// so concurrent redemptions of the same token have exactly one winner.
func (s *InviteService) RedeemInvite(ctx context.Context, token, projectID string, user domain.User) (string, error) {
	ctx, span := tracex.Start(ctx, "InviteService.RedeemInvite")
	defer span.End()
	span.SetAttributes(
		attribute.String("project.id", projectID),
		attribute.String("user.id", user.ID),
	)

	log := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	projectID = strings.TrimSpace(projectID)
	if token == "" || projectID == "" {
		return "", ErrInviteNotFound
	}

	// 1. Lookup.
	inv, err := s.Store.Invites().GetInviteByToken(ctx, token, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("redeem with unknown invite",
				slog.String("project_id", projectID),
				slog.String("token_fp", cryptox.FingerprintToken(token)),
			)
			return "", ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return "", tracex.RecordError(span, err)
	}

	// 2. State. A used invite reports as used even once it has also expired.
	switch inv.State(clock(s.Now)) {
	case domain.InviteUsed:
		log.Warn("redeem of used invite", slog.String("invite_id", inv.ID))
		return "", ErrInviteAlreadyUsed
	case domain.InviteExpired:
		log.Warn("redeem of expired invite", slog.String("invite_id", inv.ID))
		return "", ErrInviteExpired
	}

	// 3. The invite is bound to an address; the redeemer must hold it.
	redeemer := domain.NormalizeEmail(user.Email)
	if redeemer == "" || redeemer != domain.NormalizeEmail(inv.Email) {
		log.Warn("redeem with mismatched email", slog.String("invite_id", inv.ID))
		return "", forbidden("invitation sent to a different email address")
	}

	// 4. Already in.
	_, err = s.Store.Memberships().GetMembership(ctx, projectID, user.ID)
	switch {
	case err == nil:
		return "", ErrAlreadyMember
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to check membership", slog.Any("error", err))
		return "", tracex.RecordError(span, err)
	}

	// 5. Claim the invite and grant access together.
	now := clock(s.Now)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invites().MarkInviteUsed(ctx, inv.ID, user.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAlreadyUsed
			}
			return err
		}

		m := domain.Membership{
			ID:        idx.NewAt(now).String(),
			ProjectID: projectID,
			UserID:    user.ID,
			Role:      domain.RoleParticipant,
			GrantedAt: now,
		}
		if err := tx.Memberships().CreateMembership(ctx, m); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInviteAlreadyUsed) || errors.Is(err, ErrAlreadyMember) {
			log.Warn("invite redemption lost a race",
				slog.String("invite_id", inv.ID),
				slog.Any("error", err),
			)
			return "", err
		}
		log.Error("failed to redeem invite", slog.Any("error", err))
		return "", tracex.RecordError(span, err)
	}

	log.Info("invite redeemed",
		slog.String("project_id", projectID),
		slog.String("invite_id", inv.ID),
	)
	return projectID, nil
}

// ListPending returns invitations addressed to user that can still be
// redeemed. Users without an email have none.
func (s *InviteService) ListPending(ctx context.Context, user domain.User) ([]domain.PendingInvite, error) {
	email := domain.NormalizeEmail(user.Email)
	if email == "" {
		return []domain.PendingInvite{}, nil
	}

	pending, err := s.Store.Invites().ListPendingForEmail(ctx, email, clock(s.Now))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list pending invites", slog.Any("error", err))
		return nil, err
	}
	if pending == nil {
		pending = []domain.PendingInvite{}
	}
	return pending, nil
}

func (s *InviteService) validity() time.Duration {
	if s.Config.Validity <= 0 {
		return DefaultInviteValidity
	}
	return s.Config.Validity
}

// joinLink builds {FrontendURL}/join?token=...&project_id=... in that order.
func (s *InviteService) joinLink(token, projectID string) string {
	base := strings.TrimRight(s.Config.FrontendURL, "/")
	return base + "/join?token=" + url.QueryEscape(token) + "&project_id=" + url.QueryEscape(projectID)
}
