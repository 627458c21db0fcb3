package notify

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/collab/pkg/slogx"
)

// LogSink writes invitations to the log instead of sending mail. It is the
// default for local development.
type LogSink struct{}

func (LogSink) SendInvite(ctx context.Context, inv Invite) error {
	slogx.FromContext(ctx).Info("invite email (log sink)",
		slog.String("to", inv.Recipient),
		slog.String("project", inv.ProjectName),
		slog.String("inviter", inv.Inviter),
		slog.String("join_link", inv.JoinLink),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return nil
}
