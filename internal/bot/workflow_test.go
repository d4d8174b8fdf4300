package bot_test

import (
	"context"
	"testing"

	"github.com/awnumar/memguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/secret-approval-bot/internal/bot"
	"github.com/xela07ax/secret-approval-bot/internal/domain"
	"github.com/xela07ax/secret-approval-bot/internal/registry"
)

type fakeVault struct {
	value []byte
	err   error
	calls int
}

func (f *fakeVault) Access(ctx context.Context, project, secret, version string) (*memguard.Enclave, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// NewEnclave затирает вход, отдаем копию
	data := append([]byte(nil), f.value...)
	return memguard.NewEnclave(data), nil
}

type fakeMessenger struct {
	parents []string
	texts   []string
	err     error
}

func (f *fakeMessenger) PostDirectMessage(ctx context.Context, parent, text string) error {
	if f.err != nil {
		return f.err
	}
	f.parents = append(f.parents, parent)
	f.texts = append(f.texts, text)
	return nil
}

type workflowFixture struct {
	store     *registry.Memory
	vault     *fakeVault
	messenger *fakeMessenger
	workflow  *bot.Workflow
}

func newWorkflowFixture(t *testing.T, approvers []string) *workflowFixture {
	t.Helper()

	store := registry.NewMemory(0)
	vaultFake := &fakeVault{value: []byte("s3cr3t")}
	messengerFake := &fakeMessenger{}
	render := newRenderer(t)

	workflow := bot.NewWorkflow(store, vaultFake, messengerFake, approvers,
		render, bot.NewMetrics(nil), zap.NewNop())

	return &workflowFixture{
		store:     store,
		vault:     vaultFake,
		messenger: messengerFake,
		workflow:  workflow,
	}
}

func clickEvent(action, requestID, email string) *domain.Event {
	return &domain.Event{
		Type: bot.EventCardClicked,
		User: &domain.EventUser{Name: "users/approver", DisplayName: "Bob", Email: email},
		Action: &domain.EventAction{
			ActionMethodName: action,
			Parameters:       []domain.EventParameter{{Key: bot.ParamRequestID, Value: requestID}},
		},
	}
}

func TestWorkflowApproveDeliversSecret(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("approve", id, "bob@x.com"))
	require.NoError(t, err)

	// Ровно одна доставка, лично заявителю, с самим значением
	require.Len(t, fx.messenger.texts, 1)
	assert.Equal(t, []string{"users/123"}, fx.messenger.parents)
	assert.Contains(t, fx.messenger.texts[0], "s3cr3t")
	assert.Equal(t, 1, fx.vault.calls)

	// Заявка забрана из реестра
	_, err = fx.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)

	// Ответ — финальная карточка с аппрувером
	require.NotEmpty(t, msg.Cards)
	assert.Contains(t, msg.Cards[0].Header.Title, "Approved")
}

func TestWorkflowDenySkipsVaultAndDelivery(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("deny", id, "bob@x.com"))
	require.NoError(t, err)

	assert.Zero(t, fx.vault.calls)
	assert.Empty(t, fx.messenger.texts)

	_, err = fx.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)

	require.NotEmpty(t, msg.Cards)
	assert.Contains(t, msg.Cards[0].Header.Title, "Denied")
}

func TestWorkflowUnauthorizedLeavesRequestIntact(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("approve", id, "mallory@x.com"))
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "mallory@x.com")
	assert.Zero(t, fx.vault.calls)

	// Заявка не сожжена: авторизованный повтор на том же ID проходит
	_, err = fx.store.Get(context.Background(), id)
	require.NoError(t, err)

	retry, err := fx.workflow.HandleClick(context.Background(), clickEvent("approve", id, "bob@x.com"))
	require.NoError(t, err)
	require.NotEmpty(t, retry.Cards)
	assert.Contains(t, retry.Cards[0].Header.Title, "Approved")
}

func TestWorkflowUnknownRequestID(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("approve", "never-created", "bob@x.com"))
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "not found or already processed")
	assert.Zero(t, fx.vault.calls)
}

func TestWorkflowSecondClickSeesNotFound(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	_, err = fx.workflow.HandleClick(context.Background(), clickEvent("deny", id, "bob@x.com"))
	require.NoError(t, err)

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("approve", id, "bob@x.com"))
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "not found or already processed")
}

func TestWorkflowVaultErrorBurnsRequest(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	fx.vault.err = assert.AnError

	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("approve", id, "bob@x.com"))
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Error fetching secret")
	assert.Empty(t, fx.messenger.texts)

	// Запись уже consumed и не восстанавливается
	_, err = fx.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestWorkflowDeliveryErrorPropagates(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	fx.messenger.err = assert.AnError

	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	_, err = fx.workflow.HandleClick(context.Background(), clickEvent("approve", id, "bob@x.com"))
	require.Error(t, err)

	_, err = fx.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestWorkflowUnknownActionAfterConsume(t *testing.T) {
	t.Parallel()

	fx := newWorkflowFixture(t, []string{"bob@x.com"})
	id, err := fx.store.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	msg, err := fx.workflow.HandleClick(context.Background(), clickEvent("escalate", id, "bob@x.com"))
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Unknown action")

	// Заявка уже забрана на шаге consume
	_, err = fx.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}
