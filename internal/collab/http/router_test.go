package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/blob/bolt"
	collabhttp "github.com/aussiebroadwan/collab/internal/collab/http"
	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/aussiebroadwan/collab/pkg/httpx"
	"github.com/aussiebroadwan/collab/pkg/jwtx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const issuer = "https://collab.test"

type testServer struct {
	*httptest.Server
	client *collabsdk.Client
	now    *time.Time
}

func newTestServer(t *testing.T, limits httpx.RateLimitProfiles) *testServer {
	t.Helper()

	dir := t.TempDir()
	st, err := sqlite.NewStore(filepath.Join(dir, "collab.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	blobs, err := bolt.Open(filepath.Join(dir, "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: issuer})
	require.NoError(t, err)

	now := time.Now().UTC()
	clock := func() time.Time { return now }

	guard := &service.Guard{Store: st}
	users := &service.UserService{Store: st}

	router := collabhttp.NewRouter(km.KeySet, km.Verifier, "test", st, blobs, limits, slogx.Discard())
	router.UserService = users
	router.TokenService = &service.TokenService{KeyManager: km, Issuer: issuer}
	router.ProjectService = &service.ProjectService{
		Store:       st,
		Guard:       guard,
		Memberships: &service.MembershipService{Store: st},
		Blobs:       blobs,
	}
	router.InviteService = &service.InviteService{
		Store:  st,
		Guard:  guard,
		Config: service.InviteConfig{FrontendURL: "https://app.example.com", Validity: 7 * 24 * time.Hour},
		Now:    clock,
	}
	router.DocumentService = &service.DocumentService{Store: st, Guard: guard, Blobs: blobs}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, client: collabsdk.NewClient(srv.URL), now: &now}
}

func (s *testServer) login(t *testing.T, login, email string) *collabsdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := s.client.Register(ctx, collabsdk.RegisterRequest{Login: login, Password: "correct horse battery", Email: email})
	require.NoError(t, err)

	sess, err := s.client.Login(ctx, login, "correct horse battery")
	require.NoError(t, err)
	return sess
}

func TestRouter_System(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})
	ctx := context.Background()

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.BlobStore)

	jwks, err := s.client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "EdDSA", jwks.Keys[0].Alg)
}

func TestRouter_RequiresBearer(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})

	resp, err := http.Get(s.URL + "/v1/projects")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

	bogus := s.client.NewSession("not-a-jwt", 3600)
	_, err = bogus.Me(context.Background())
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeUnauthorized), err)
}

func TestRouter_Accounts(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})
	ctx := context.Background()

	alice := s.login(t, "alice", "Alice@Example.com")
	me, err := alice.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", me.Login)
	require.Equal(t, "alice@example.com", me.Email)

	_, err = s.client.Register(ctx, collabsdk.RegisterRequest{Login: "alice", Password: "correct horse battery"})
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeLoginTaken), err)

	_, err = s.client.Login(ctx, "alice", "nope nope nope")
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeInvalidCredentials), err)

	_, err = s.client.Register(ctx, collabsdk.RegisterRequest{Login: "x", Password: "correct horse battery"})
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeInvalidRequest), err)
}

func TestRouter_ShareAndJoin(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})
	ctx := context.Background()

	alice := s.login(t, "alice", "alice@example.com")
	bob := s.login(t, "bob", "bob@example.com")
	mallory := s.login(t, "mallory", "mallory@example.com")

	p, err := alice.CreateProject(ctx, collabsdk.CreateProjectRequest{Name: "Apollo"})
	require.NoError(t, err)
	require.Equal(t, "owner", p.Role)

	_, err = bob.GetProject(ctx, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeForbidden), err)

	_, err = bob.Share(ctx, p.ID, "bob@example.com")
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeForbidden), err)

	share, err := alice.Share(ctx, p.ID, "bob@example.com")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(share.JoinLink, "https://app.example.com/join?token="))

	pending, err := bob.ListInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Apollo", pending[0].ProjectName)
	require.Equal(t, "alice", pending[0].InvitedBy)

	_, err = mallory.Join(ctx, share.Token, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeForbidden), err)

	_, err = bob.Join(ctx, "bogus", p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeNotFound), err)

	joined, err := bob.Join(ctx, share.Token, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, joined.ProjectID)

	_, err = bob.Join(ctx, share.Token, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeInviteAlreadyUsed), err)

	got, err := bob.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "participant", got.Role)

	pending, err = bob.ListInvitations(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	// Participants can't do owner things.
	err = bob.DeleteProject(ctx, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeForbidden), err)
}

func TestRouter_ExpiredInvite(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})
	ctx := context.Background()

	alice := s.login(t, "alice", "alice@example.com")
	bob := s.login(t, "bob", "bob@example.com")

	p, err := alice.CreateProject(ctx, collabsdk.CreateProjectRequest{Name: "Apollo"})
	require.NoError(t, err)
	share, err := alice.Share(ctx, p.ID, "bob@example.com")
	require.NoError(t, err)

	*s.now = s.now.Add(8 * 24 * time.Hour)

	_, err = bob.Join(ctx, share.Token, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeInviteExpired), err)
}

func TestRouter_ProjectsAndMembers(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})
	ctx := context.Background()

	alice := s.login(t, "alice", "alice@example.com")
	bob := s.login(t, "bob", "bob@example.com")

	p, err := alice.CreateProject(ctx, collabsdk.CreateProjectRequest{Name: "Apollo", Description: "moon"})
	require.NoError(t, err)

	m, err := alice.AddMember(ctx, p.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, "participant", m.Role)

	_, err = alice.AddMember(ctx, p.ID, "bob")
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeDuplicateMembership), err)

	name := "Artemis"
	updated, err := bob.UpdateProject(ctx, p.ID, collabsdk.UpdateProjectRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Artemis", updated.Name)
	require.Equal(t, "moon", updated.Description)

	list, err := bob.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	members, err := bob.ListMembers(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.NoError(t, alice.DeleteProject(ctx, p.ID))

	_, err = alice.GetProject(ctx, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeNotFound), err)
}

func TestRouter_Documents(t *testing.T) {
	s := newTestServer(t, httpx.RateLimitProfiles{})
	ctx := context.Background()

	alice := s.login(t, "alice", "alice@example.com")
	bob := s.login(t, "bob", "bob@example.com")

	p, err := alice.CreateProject(ctx, collabsdk.CreateProjectRequest{Name: "Apollo"})
	require.NoError(t, err)

	docs, err := alice.UploadDocuments(ctx, p.ID,
		collabsdk.File{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
		collabsdk.File{Name: "data.bin", Data: []byte{0, 1, 2}},
	)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	_, err = bob.ListDocuments(ctx, p.ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeForbidden), err)
	_, _, err = bob.DownloadDocument(ctx, docs[0].ID)
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeForbidden), err)

	data, ct, err := alice.DownloadDocument(ctx, docs[0].ID)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
	require.Equal(t, "text/plain", ct)

	replaced, err := alice.ReplaceDocument(ctx, docs[0].ID, collabsdk.File{Name: "notes.md", Data: []byte("# hi")})
	require.NoError(t, err)
	require.Equal(t, "notes.md", replaced.Filename)

	require.NoError(t, alice.DeleteDocument(ctx, docs[1].ID))

	list, err := alice.ListDocuments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRouter_StrictRateLimitOnLogin(t *testing.T) {
	limits := httpx.DefaultRateLimits()
	limits.Strict = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Hour, Burst: 2}
	s := newTestServer(t, limits)
	ctx := context.Background()

	for range 2 {
		_, err := s.client.Login(ctx, "nobody", "whatever-password")
		require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeInvalidCredentials), err)
	}

	_, err := s.client.Login(ctx, "nobody", "whatever-password")
	require.True(t, collabsdk.IsCode(err, collabsdk.ErrorCodeRateLimited), err)
}
