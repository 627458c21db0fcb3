package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/aussiebroadwan/collab/pkg/httpx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
)

// writeServiceError maps a service error to its HTTP status. Anything the
// services don't name is logged and reported as a 500 with a generic body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, collabsdk.ErrorCodeInvalidRequest, reason(err, service.ErrInvalidInput))
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, collabsdk.ErrorCodeInvalidCredentials, err.Error())
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, collabsdk.ErrorCodeForbidden, reason(err, service.ErrForbidden))
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, collabsdk.ErrorCodeNotFound, err.Error())
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		httpx.WriteError(w, http.StatusBadRequest, collabsdk.ErrorCodeInviteAlreadyUsed, err.Error())
	case errors.Is(err, service.ErrInviteExpired):
		httpx.WriteError(w, http.StatusBadRequest, collabsdk.ErrorCodeInviteExpired, err.Error())
	case errors.Is(err, service.ErrAlreadyMember):
		httpx.WriteError(w, http.StatusBadRequest, collabsdk.ErrorCodeAlreadyMember, err.Error())
	case errors.Is(err, service.ErrDuplicateMembership):
		httpx.WriteError(w, http.StatusConflict, collabsdk.ErrorCodeDuplicateMembership, err.Error())
	case errors.Is(err, service.ErrLoginTaken):
		httpx.WriteError(w, http.StatusConflict, collabsdk.ErrorCodeLoginTaken, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, collabsdk.ErrorCodeEmailTaken, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("failed to "+action, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, collabsdk.ErrorCodeServerError, "Failed to "+action)
	}
}

// reason strips the sentinel prefix off a wrapped error, leaving the detail.
func reason(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

func badRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, collabsdk.ErrorCodeInvalidRequest, desc)
}
