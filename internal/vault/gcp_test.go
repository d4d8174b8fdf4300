package vault_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xela07ax/secret-approval-bot/internal/vault"
)

func TestResourceName(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"projects/billing-prod/secrets/db-pass/versions/latest",
		vault.ResourceName("billing-prod", "db-pass", "latest"))
	assert.Equal(t,
		"projects/p/secrets/s/versions/3",
		vault.ResourceName("p", "s", "3"))
}

func TestSuggestionClassifiesGRPCCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "denied"), "IAM permissions"},
		{"not found", status.Error(codes.NotFound, "no such secret"), "secret exists"},
		{"unauthenticated", status.Error(codes.Unauthenticated, "no creds"), "GOOGLE_APPLICATION_CREDENTIALS"},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad name"), "version specification"},
		{"throttled", status.Error(codes.ResourceExhausted, "quota"), "throttled"},
		{"unknown error", errors.New("boom"), "Check GCP credentials"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, vault.Suggestion(tc.err), tc.want)
		})
	}
}
