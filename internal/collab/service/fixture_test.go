package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/blob/bolt"
	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/notify"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Invite
}

func (r *recordingNotifier) Dispatch(_ context.Context, inv notify.Invite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, inv)
}

func (r *recordingNotifier) Sent() []notify.Invite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Invite(nil), r.sent...)
}

type fixture struct {
	store    *sqlite.Store
	blobs    *bolt.Store
	clock    *testClock
	notifier *recordingNotifier

	guard       *Guard
	users       *UserService
	memberships *MembershipService
	projects    *ProjectService
	invites     *InviteService
	documents   *DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	st, err := sqlite.NewStore(filepath.Join(dir, "collab.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	blobs, err := bolt.Open(filepath.Join(dir, "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })

	clk := &testClock{now: t0}
	notifier := &recordingNotifier{}
	guard := &Guard{Store: st}
	memberships := &MembershipService{Store: st, Now: clk.Now}

	return &fixture{
		store:       st,
		blobs:       blobs,
		clock:       clk,
		notifier:    notifier,
		guard:       guard,
		users:       &UserService{Store: st, Now: clk.Now},
		memberships: memberships,
		projects:    &ProjectService{Store: st, Guard: guard, Memberships: memberships, Blobs: blobs, Now: clk.Now},
		invites: &InviteService{
			Store:    st,
			Guard:    guard,
			Notifier: notifier,
			Config:   InviteConfig{FrontendURL: "https://app.example.com/", Validity: 7 * 24 * time.Hour},
			Now:      clk.Now,
		},
		documents: &DocumentService{Store: st, Guard: guard, Blobs: blobs, Now: clk.Now},
	}
}

func (f *fixture) user(t *testing.T, login, email string) domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), login, "correct horse battery", email)
	require.NoError(t, err)
	return u
}

func (f *fixture) project(t *testing.T, owner domain.User, name string) domain.Project {
	t.Helper()
	p, err := f.projects.CreateProject(context.Background(), owner, name, "")
	require.NoError(t, err)
	return p
}
