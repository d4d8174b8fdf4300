package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	chat "google.golang.org/api/chat/v1"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
	"github.com/xela07ax/secret-approval-bot/internal/registry"
	"github.com/xela07ax/secret-approval-bot/internal/server"
)

type stubHandler struct {
	resp  *chat.Message
	err   error
	panic bool
}

func (h *stubHandler) Handle(ctx context.Context, event *domain.Event) (*chat.Message, error) {
	if h.panic {
		panic("boom")
	}
	if h.err != nil {
		return nil, h.err
	}
	if h.resp != nil {
		return h.resp, nil
	}
	return &chat.Message{}, nil
}

func sampleRequest() *domain.PendingRequest {
	return &domain.PendingRequest{
		Requester:     domain.Requester{Name: "users/123", Email: "alice@x.com"},
		OriginSpace:   "spaces/abc",
		ProjectName:   "billing-prod",
		SecretName:    "db-pass",
		SecretVersion: "latest",
		CreatedAt:     time.Now().UTC(),
	}
}

type denyVerifier struct{}

func (denyVerifier) Verify(ctx context.Context, token string) error {
	return errors.New("invalid token")
}

func newServer(handler *stubHandler, store registry.Store, verifier server.TokenVerifier) *server.Server {
	return server.New(zap.NewNop(), handler, store, verifier, nil)
}

func postWebhook(t *testing.T, srv http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestWebhookReturnsHandlerResponse(t *testing.T) {
	t.Parallel()

	srv := newServer(&stubHandler{resp: &chat.Message{Text: "hello"}}, registry.NewMemory(0), nil)
	rec := postWebhook(t, srv, `{"type":"ADDED_TO_SPACE"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestWebhookMalformedBodyAcksEmpty(t *testing.T) {
	t.Parallel()

	srv := newServer(&stubHandler{}, registry.NewMemory(0), nil)
	rec := postWebhook(t, srv, `{"type": `)

	// Кривой JSON — не ошибка: пустой ack со статусом 200
	require.Equal(t, http.StatusOK, rec.Code)
	var msg chat.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Empty(t, msg.Text)
}

func TestWebhookHandlerErrorBecomesErrorText(t *testing.T) {
	t.Parallel()

	srv := newServer(&stubHandler{err: errors.New("delivery failed")}, registry.NewMemory(0), nil)
	rec := postWebhook(t, srv, `{"type":"CARD_CLICKED"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "delivery failed")
}

func TestWebhookPanicDoesNotKillServer(t *testing.T) {
	t.Parallel()

	handler := &stubHandler{panic: true}
	srv := newServer(handler, registry.NewMemory(0), nil)

	rec := postWebhook(t, srv, `{"type":"MESSAGE"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")

	// Следующий запрос обслуживается как ни в чем не бывало
	handler.panic = false
	rec = postWebhook(t, srv, `{"type":"MESSAGE"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRejectedWithoutValidToken(t *testing.T) {
	t.Parallel()

	srv := newServer(&stubHandler{}, registry.NewMemory(0), denyVerifier{})

	// Без заголовка
	rec := postWebhook(t, srv, `{"type":"MESSAGE"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// С невалидным токеном
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"type":"MESSAGE"}`))
	req.Header.Set("Authorization", "Bearer bad-token")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthReportsRegistrySize(t *testing.T) {
	t.Parallel()

	store := registry.NewMemory(0)
	for i := 0; i < 3; i++ {
		_, err := store.Create(context.Background(), sampleRequest())
		require.NoError(t, err)
	}

	srv := newServer(&stubHandler{}, store, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status          string `json:"status"`
		Timestamp       string `json:"timestamp"`
		PendingRequests int64  `json:"pendingRequests"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Timestamp)
	assert.EqualValues(t, 3, health.PendingRequests)
}
