package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories are methods so a
// Tx-scoped Store can hand out repos bound to the same transaction.
type Store interface {
	Users() Users
	Projects() Projects
	Memberships() Memberships
	Invites() Invites
	Documents() Documents

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Repos used inside fn must come from tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a user. Duplicate login or email gives ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (domain.User, error)
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error
	GetProject(ctx context.Context, id string) (domain.Project, error)

	// ListProjectsForUser returns every project userID holds a membership
	// on, newest first, with that membership's role.
	ListProjectsForUser(ctx context.Context, userID string) ([]domain.ProjectWithRole, error)

	// UpdateProject overwrites name, description and updated_at.
	UpdateProject(ctx context.Context, p domain.Project) error

	// DeleteProject cascades to memberships, invite tokens and documents.
	DeleteProject(ctx context.Context, id string) error
}

type Memberships interface {
	// CreateMembership inserts a row. A second row for the same
	// (project, user) pair gives ErrAlreadyExists.
	CreateMembership(ctx context.Context, m domain.Membership) error

	GetMembership(ctx context.Context, projectID, userID string) (domain.Membership, error)

	// ListMembers returns the project's members in grant order.
	ListMembers(ctx context.Context, projectID string) ([]domain.Member, error)
}

type Invites interface {
	CreateInvite(ctx context.Context, inv domain.InviteToken) error

	// GetInviteByToken looks the token up within a single project.
	GetInviteByToken(ctx context.Context, token, projectID string) (domain.InviteToken, error)

	// MarkInviteUsed claims an unused invite. It returns ErrNotFound when
	// the row is missing or was already claimed.
	MarkInviteUsed(ctx context.Context, id, userID string, at time.Time) error

	// ListPendingForEmail returns unused invites for email that are still
	// valid at now, newest first.
	ListPendingForEmail(ctx context.Context, email string, now time.Time) ([]domain.PendingInvite, error)

	// DeleteStaleInvites removes unused invites that expired before cutoff
	// and reports how many went.
	DeleteStaleInvites(ctx context.Context, cutoff time.Time) (int64, error)
}

type Documents interface {
	CreateDocument(ctx context.Context, d domain.Document) error
	GetDocument(ctx context.Context, id string) (domain.Document, error)

	// ListDocuments returns the project's documents, newest first.
	ListDocuments(ctx context.Context, projectID string) ([]domain.Document, error)

	// UpdateDocument overwrites the file metadata and blob key of d.ID.
	UpdateDocument(ctx context.Context, d domain.Document) error

	DeleteDocument(ctx context.Context, id string) error
}
