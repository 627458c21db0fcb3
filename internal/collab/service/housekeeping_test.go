package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeeping_PrunesOnlyStaleUnusedInvites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	p := f.project(t, alice, "Apollo")

	stale, err := f.invites.CreateInvite(ctx, p.ID, "carol@example.com", alice)
	require.NoError(t, err)
	used, err := f.invites.CreateInvite(ctx, p.ID, "bob@example.com", alice)
	require.NoError(t, err)
	_, err = f.invites.RedeemInvite(ctx, used.Token, p.ID, bob)
	require.NoError(t, err)

	f.clock.Advance(20 * 24 * time.Hour)
	fresh, err := f.invites.CreateInvite(ctx, p.ID, "dave@example.com", alice)
	require.NoError(t, err)

	hk := NewHousekeepingService(f.store, slogx.Discard(), time.Hour, 10*24*time.Hour)
	hk.Now = f.clock.Now
	hk.Start()
	hk.Stop()

	_, err = f.store.Invites().GetInviteByToken(ctx, stale.Token, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.store.Invites().GetInviteByToken(ctx, used.Token, p.ID)
	require.NoError(t, err)

	_, err = f.store.Invites().GetInviteByToken(ctx, fresh.Token, p.ID)
	require.NoError(t, err)
}
