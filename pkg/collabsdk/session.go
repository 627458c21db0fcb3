package collabsdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

// ErrSessionExpired is returned before a request is sent with a token that
// has already run out. Log in again to get a fresh Session.
var ErrSessionExpired = errors.New("collabsdk: session expired")

// Session is an authenticated view of the API.
type Session struct {
	client      *Client
	accessToken string
	expiresAt   time.Time
}

// AccessToken returns the raw bearer token.
func (s *Session) AccessToken() string { return s.accessToken }

func (s *Session) token() (string, error) {
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

func (s *Session) doJSON(ctx context.Context, method, path string, in any) (*http.Response, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.doJSON(ctx, method, path, in, tok)
}

// ============================================================================
// Users
// ============================================================================

func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/users/me", nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ============================================================================
// Projects
// ============================================================================

func (s *Session) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/projects", req)
	if err != nil {
		return nil, err
	}

	var p ProjectResponse
	if err := decodeJSON(resp, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) ListProjects(ctx context.Context) ([]ProjectResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/projects", nil)
	if err != nil {
		return nil, err
	}

	var out []ProjectResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetProject(ctx context.Context, projectID string) (*ProjectResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID), nil)
	if err != nil {
		return nil, err
	}

	var p ProjectResponse
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) UpdateProject(ctx context.Context, projectID string, req UpdateProjectRequest) (*ProjectResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPatch, "/v1/projects/"+url.PathEscape(projectID), req)
	if err != nil {
		return nil, err
	}

	var p ProjectResponse
	if err := decodeJSON(resp, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) DeleteProject(ctx context.Context, projectID string) error {
	resp, err := s.doJSON(ctx, http.MethodDelete, "/v1/projects/"+url.PathEscape(projectID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) ListMembers(ctx context.Context, projectID string) ([]MemberResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID)+"/members", nil)
	if err != nil {
		return nil, err
	}

	var out []MemberResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember grants an existing account participant access directly.
func (s *Session) AddMember(ctx context.Context, projectID, login string) (*MemberResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/members", AddMemberRequest{Login: login})
	if err != nil {
		return nil, err
	}

	var m MemberResponse
	if err := decodeJSON(resp, &m, http.StatusCreated); err != nil {
		return nil, err
	}
	return &m, nil
}

// ============================================================================
// Invitations
// ============================================================================

// Share issues an email-bound invitation to the project.
func (s *Session) Share(ctx context.Context, projectID, email string) (*ShareResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/share", ShareRequest{Email: email})
	if err != nil {
		return nil, err
	}

	var out ShareResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Join redeems an invitation for the session's user.
func (s *Session) Join(ctx context.Context, token, projectID string) (*JoinResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/v1/join", JoinRequest{Token: token, ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	var out JoinResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ListInvitations(ctx context.Context) ([]InvitationResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/invitations", nil)
	if err != nil {
		return nil, err
	}

	var out []InvitationResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================================
// Documents
// ============================================================================

func (s *Session) ListDocuments(ctx context.Context, projectID string) ([]DocumentResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID)+"/documents", nil)
	if err != nil {
		return nil, err
	}

	var out []DocumentResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) UploadDocuments(ctx context.Context, projectID string, files ...File) ([]DocumentResponse, error) {
	resp, err := s.doMultipart(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/documents", files)
	if err != nil {
		return nil, err
	}

	var out []DocumentResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadDocument returns the file contents and their content type.
func (s *Session) DownloadDocument(ctx context.Context, documentID string) ([]byte, string, error) {
	tok, err := s.token()
	if err != nil {
		return nil, "", err
	}
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/documents/"+url.PathEscape(documentID), nil, nil, tok)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", parseErrorResponse(resp, body)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (s *Session) ReplaceDocument(ctx context.Context, documentID string, file File) (*DocumentResponse, error) {
	resp, err := s.doMultipart(ctx, http.MethodPut, "/v1/documents/"+url.PathEscape(documentID), []File{file})
	if err != nil {
		return nil, err
	}

	var out DocumentResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteDocument(ctx context.Context, documentID string) error {
	resp, err := s.doJSON(ctx, http.MethodDelete, "/v1/documents/"+url.PathEscape(documentID), nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// doMultipart sends files as "file" parts of a multipart/form-data body.
func (s *Session) doMultipart(ctx context.Context, method, path string, files []File) (*http.Response, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create multipart part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write multipart part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return s.client.doRequest(ctx, method, path, &buf,
		map[string]string{"Content-Type": mw.FormDataContentType()}, tok)
}
