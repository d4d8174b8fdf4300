package infra_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/secret-approval-bot/internal/infra"
)

func TestApproverList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain list", "a@x.com,b@x.com", []string{"a@x.com", "b@x.com"}},
		{"spaces around entries", " a@x.com , b@x.com ", []string{"a@x.com", "b@x.com"}},
		{"empty entries skipped", "a@x.com,,", []string{"a@x.com"}},
		{"empty string", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := infra.BotConfig{Approvers: tc.raw}
			assert.Equal(t, tc.want, cfg.ApproverList())
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BOT_APPROVERS", "lead@x.com")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("BOT_LOCALE", "pt-BR")

	cfg, err := infra.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"lead@x.com"}, cfg.Bot.ApproverList())
	assert.Equal(t, ":8081", cfg.Server.Addr())
	assert.Equal(t, "pt-BR", cfg.Bot.Locale)
	assert.Equal(t, "memory", cfg.Registry.Backend)
}

func TestLoadConfigRequiresApprovers(t *testing.T) {
	t.Setenv("BOT_APPROVERS", "")

	_, err := infra.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approver")
}

func TestRequestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "secretbot:requests:abc", infra.RequestKey("abc"))
	assert.Equal(t, "secretbot:requests:*", infra.RequestKeyPattern)
}
