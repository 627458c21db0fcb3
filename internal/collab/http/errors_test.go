package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		desc   string
	}{
		{fmt.Errorf("%w: name is required", service.ErrInvalidInput), http.StatusBadRequest, collabsdk.ErrorCodeInvalidRequest, "name is required"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, collabsdk.ErrorCodeInvalidCredentials, ""},
		{fmt.Errorf("%w: insufficient role", service.ErrForbidden), http.StatusForbidden, collabsdk.ErrorCodeForbidden, "insufficient role"},
		{service.ErrProjectNotFound, http.StatusNotFound, collabsdk.ErrorCodeNotFound, "project not found"},
		{service.ErrInviteNotFound, http.StatusNotFound, collabsdk.ErrorCodeNotFound, "invitation not found"},
		{service.ErrInviteAlreadyUsed, http.StatusBadRequest, collabsdk.ErrorCodeInviteAlreadyUsed, ""},
		{service.ErrInviteExpired, http.StatusBadRequest, collabsdk.ErrorCodeInviteExpired, ""},
		{service.ErrAlreadyMember, http.StatusBadRequest, collabsdk.ErrorCodeAlreadyMember, ""},
		{service.ErrDuplicateMembership, http.StatusConflict, collabsdk.ErrorCodeDuplicateMembership, ""},
		{service.ErrLoginTaken, http.StatusConflict, collabsdk.ErrorCodeLoginTaken, ""},
		{service.ErrEmailTaken, http.StatusConflict, collabsdk.ErrorCodeEmailTaken, ""},
		{errors.New("disk on fire"), http.StatusInternalServerError, collabsdk.ErrorCodeServerError, "Failed to do thing"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			writeServiceError(rec, req, tc.err, "do thing")

			require.Equal(t, tc.status, rec.Code)

			var body collabsdk.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.code, body.Error)
			if tc.desc != "" {
				require.Equal(t, tc.desc, body.ErrorDescription)
			}
			require.NotContains(t, body.ErrorDescription, "disk on fire")
		})
	}
}
