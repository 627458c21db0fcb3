//go:build e2e

package collab_test

import (
	"testing"

	"github.com/aussiebroadwan/collab/pkg/collabsdk"
)

func TestLoginRateLimited(t *testing.T) {
	client := setupCollabContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS": "3",
		"RATELIMIT_STRICT_BURST":    "3",
		"RATELIMIT_STRICT_WINDOW":   "1h",
	})
	ctx := t.Context()

	for range 3 {
		_, err := client.Login(ctx, "ghost", "not-a-real-password")
		requireCode(t, err, collabsdk.ErrorCodeInvalidCredentials)
	}

	_, err := client.Login(ctx, "ghost", "not-a-real-password")
	requireCode(t, err, collabsdk.ErrorCodeRateLimited)
}
