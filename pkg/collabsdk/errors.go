package collabsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeInviteAlreadyUsed   = "invite_already_used"
	ErrorCodeInviteExpired       = "invite_expired"
	ErrorCodeAlreadyMember       = "already_member"
	ErrorCodeDuplicateMembership = "duplicate_membership"
	ErrorCodeLoginTaken          = "login_taken"
	ErrorCodeEmailTaken          = "email_taken"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("collab: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("collab: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx body into an *APIError, falling back
// to the status text when the body is not ours.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
