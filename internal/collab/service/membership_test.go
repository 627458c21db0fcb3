package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/stretchr/testify/require"
)

func TestMembershipService_Grant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	p := f.project(t, alice, "Apollo")

	m, err := f.memberships.Grant(ctx, p.ID, bob.ID, domain.RoleParticipant)
	require.NoError(t, err)
	require.Equal(t, t0, m.GrantedAt)

	got, err := f.memberships.Get(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, domain.RoleParticipant, got.Role)

	_, err = f.memberships.Grant(ctx, p.ID, bob.ID, domain.RoleParticipant)
	require.ErrorIs(t, err, ErrDuplicateMembership)

	_, err = f.memberships.Grant(ctx, p.ID, bob.ID, domain.Role("admin"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMembershipService_GetAbsent(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	p := f.project(t, alice, "Apollo")

	_, err := f.memberships.Get(context.Background(), p.ID, bob.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMembershipService_ConcurrentGrantHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	p := f.project(t, alice, "Apollo")

	const n = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = f.memberships.Grant(ctx, p.ID, bob.ID, domain.RoleParticipant)
		}()
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrDuplicateMembership):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)

	members, err := f.store.Memberships().ListMembers(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
}
