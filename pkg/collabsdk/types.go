package collabsdk

import (
	"time"

	"github.com/aussiebroadwan/collab/pkg/jwtx"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// System
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database  string `json:"database"`
	BlobStore string `json:"blob_store"`
	Signer    string `json:"signer"`
}

// JWKSResponse is the public key set tokens are signed with.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Accounts
// ============================================================================

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Projects and members
// ============================================================================

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest leaves nil fields unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AddMemberRequest struct {
	Login string `json:"login"`
}

type MemberResponse struct {
	UserID    string    `json:"user_id"`
	Login     string    `json:"login"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
}

// ============================================================================
// Invitations
// ============================================================================

type ShareRequest struct {
	Email string `json:"email"`
}

type ShareResponse struct {
	Token     string    `json:"token"`
	JoinLink  string    `json:"join_link"`
	ExpiresAt time.Time `json:"expires_at"`
}

type JoinRequest struct {
	Token     string `json:"token"`
	ProjectID string `json:"project_id"`
}

type JoinResponse struct {
	ProjectID string `json:"project_id"`
}

type InvitationResponse struct {
	Token       string    `json:"token"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	InvitedBy   string    `json:"invited_by"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ============================================================================
// Documents
// ============================================================================

type DocumentResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// File is one part of a multipart upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
