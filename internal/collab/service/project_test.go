package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateMakesOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")

	p, err := f.projects.CreateProject(ctx, alice, "  Apollo  ", "moon")
	require.NoError(t, err)
	require.Equal(t, "Apollo", p.Name)
	require.Equal(t, alice.ID, p.OwnerID)

	m, err := f.memberships.Get(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, m.Role)

	_, err = f.projects.CreateProject(ctx, alice, "   ", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.projects.CreateProject(ctx, alice, strings.Repeat("x", maxProjectNameLen+1), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_ListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	carol := f.user(t, "carol", "carol@example.com")

	p := f.project(t, alice, "Apollo")
	f.clock.Advance(time.Minute)
	q := f.project(t, bob, "Gemini")
	_, err := f.projects.InviteUser(ctx, q.ID, bob, "alice")
	require.NoError(t, err)

	list, err := f.projects.ListProjects(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, q.ID, list[0].ID)
	require.Equal(t, domain.RoleParticipant, list[0].Role)
	require.Equal(t, p.ID, list[1].ID)
	require.Equal(t, domain.RoleOwner, list[1].Role)

	list, err = f.projects.ListProjects(ctx, carol)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	got, err := f.projects.GetProject(ctx, q.ID, alice)
	require.NoError(t, err)
	require.Equal(t, "Gemini", got.Name)
	require.Equal(t, domain.RoleParticipant, got.Role)

	_, err = f.projects.GetProject(ctx, q.ID, carol)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestProjectService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	carol := f.user(t, "carol", "carol@example.com")
	p := f.project(t, alice, "Apollo")
	_, err := f.projects.InviteUser(ctx, p.ID, alice, "bob")
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	desc := "lunar programme"
	updated, err := f.projects.UpdateProject(ctx, p.ID, bob, ProjectUpdate{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Apollo", updated.Name)
	require.Equal(t, desc, updated.Description)
	require.Equal(t, t0.Add(time.Hour), updated.UpdatedAt)

	got, err := f.store.Projects().GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, desc, got.Description)

	name := "Artemis"
	_, err = f.projects.UpdateProject(ctx, p.ID, carol, ProjectUpdate{Name: &name})
	require.ErrorIs(t, err, ErrForbidden)

	empty := " "
	_, err = f.projects.UpdateProject(ctx, p.ID, alice, ProjectUpdate{Name: &empty})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_DeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	p := f.project(t, alice, "Apollo")
	_, err := f.projects.InviteUser(ctx, p.ID, alice, "bob")
	require.NoError(t, err)

	docs, err := f.documents.UploadDocuments(ctx, p.ID, bob, []Upload{{Filename: "plan.txt", Data: []byte("go")}})
	require.NoError(t, err)
	_, err = f.invites.CreateInvite(ctx, p.ID, "carol@example.com", alice)
	require.NoError(t, err)

	require.ErrorIs(t, f.projects.DeleteProject(ctx, p.ID, bob), ErrForbidden)

	require.NoError(t, f.projects.DeleteProject(ctx, p.ID, alice))

	_, err = f.store.Projects().GetProject(ctx, p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.store.Memberships().GetMembership(ctx, p.ID, bob.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.blobs.Get(ctx, docs[0].BlobKey)
	require.Error(t, err)

	require.ErrorIs(t, f.projects.DeleteProject(ctx, p.ID, alice), ErrProjectNotFound)
}

func TestProjectService_InviteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")
	f.user(t, "carol", "carol@example.com")
	p := f.project(t, alice, "Apollo")

	m, err := f.projects.InviteUser(ctx, p.ID, alice, "bob")
	require.NoError(t, err)
	require.Equal(t, bob.ID, m.UserID)
	require.Equal(t, domain.RoleParticipant, m.Role)

	_, err = f.projects.InviteUser(ctx, p.ID, alice, "bob")
	require.ErrorIs(t, err, ErrDuplicateMembership)

	_, err = f.projects.InviteUser(ctx, p.ID, alice, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.projects.InviteUser(ctx, p.ID, bob, "carol")
	require.ErrorIs(t, err, ErrForbidden)

	members, err := f.projects.ListMembers(ctx, p.ID, bob)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "alice", members[0].Login)
	require.Equal(t, domain.RoleOwner, members[0].Role)
	require.Equal(t, "bob", members[1].Login)
}
