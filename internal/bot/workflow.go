package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/awnumar/memguard"
	"go.uber.org/zap"
	chat "google.golang.org/api/chat/v1"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
	"github.com/xela07ax/secret-approval-bot/internal/registry"
	"github.com/xela07ax/secret-approval-bot/internal/vault"
)

// SecretSource Описываем, что нам нужно от хранилища секретов
type SecretSource interface {
	Access(ctx context.Context, project, secret, version string) (*memguard.Enclave, error)
}

// Messenger Описываем, что нам нужно от чат-платформы:
// parent — адресуемая ссылка пользователя, под ней открывается личный диалог
type Messenger interface {
	PostDirectMessage(ctx context.Context, parent, text string) error
}

// Workflow оркестрирует обработку клика по карточке:
// авторизация -> consume из реестра -> поход за секретом -> приватная доставка.
type Workflow struct {
	store     registry.Store
	vault     SecretSource
	messenger Messenger
	approvers map[string]struct{}
	render    *Renderer
	metrics   *Metrics
	logger    *zap.Logger
}

func NewWorkflow(
	store registry.Store,
	secrets SecretSource,
	messenger Messenger,
	approvers []string,
	render *Renderer,
	metrics *Metrics,
	logger *zap.Logger,
) *Workflow {
	allow := make(map[string]struct{}, len(approvers))
	for _, email := range approvers {
		allow[email] = struct{}{}
	}
	return &Workflow{
		store:     store,
		vault:     secrets,
		messenger: messenger,
		approvers: allow,
		render:    render,
		metrics:   metrics,
		logger:    logger.Named("workflow"),
	}
}

// HandleClick обрабатывает CARD_CLICKED. Все отказы превращаются в текст для
// пользователя; наружу уходит только ошибка доставки (её ловит верхний слой).
func (w *Workflow) HandleClick(ctx context.Context, event *domain.Event) (*chat.Message, error) {
	action := event.Action.ActionMethodName
	requestID := event.Action.Parameter(ParamRequestID)
	approver := event.User.Requester()

	w.logger.Info("card click",
		zap.String("action", action),
		zap.String("approver", approver.Email),
		zap.String("request_id", requestID),
	)

	// 1. Авторизация. При отказе заявка остается нетронутой:
	// неавторизованный клик не должен сжигать запрос
	if _, ok := w.approvers[approver.Email]; !ok {
		w.metrics.DecisionsTotal.WithLabelValues(action, "unauthorized").Inc()
		return textMessage(w.render.T(msgUnauthorized, approver.Email)), nil
	}

	// 2. Атомарный consume: первый клик побеждает, повторный видит not found
	req, err := w.store.Consume(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			w.metrics.DecisionsTotal.WithLabelValues(action, "not_found").Inc()
			return textMessage(w.render.T(msgNotFound)), nil
		}
		return nil, fmt.Errorf("consume request %s: %w", requestID, err)
	}
	w.updatePendingGauge(ctx)

	// 3. Ветвление по действию
	switch action {
	case domain.ActionDeny:
		w.metrics.DecisionsTotal.WithLabelValues(action, "ok").Inc()
		return DeniedCard(w.render, req, approver), nil

	case domain.ActionApprove:
		return w.approve(ctx, req, approver)

	default:
		// Заявка уже забрана на шаге 2 и потеряна — поведение сохранено,
		// несоответствие зафиксировано в DESIGN.md
		w.metrics.DecisionsTotal.WithLabelValues(action, "unknown").Inc()
		return textMessage(w.render.T(msgUnknownAction)), nil
	}
}

// approve ходит в хранилище и доставляет значение лично заявителю.
// Заявка уже consumed: неудача здесь её не восстанавливает (одна неудачная
// попытка сжигает запрос, зато повторная отправка секрета исключена).
func (w *Workflow) approve(ctx context.Context, req *domain.PendingRequest, approver domain.Requester) (*chat.Message, error) {
	start := time.Now()
	enclave, err := w.vault.Access(ctx, req.ProjectName, req.SecretName, req.SecretVersion)
	w.metrics.VaultRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		w.logger.Error("vault fetch failed",
			zap.String("project", req.ProjectName),
			zap.String("secret", req.SecretName),
			zap.Error(err),
		)
		w.metrics.DecisionsTotal.WithLabelValues(domain.ActionApprove, "vault_error").Inc()
		return textMessage(w.render.T(msgVaultError, err.Error(), vault.Suggestion(err))), nil
	}

	if err := w.deliver(ctx, req, enclave); err != nil {
		w.metrics.DecisionsTotal.WithLabelValues(domain.ActionApprove, "delivery_error").Inc()
		w.metrics.DeliveriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("deliver secret to %s: %w", req.Requester.Name, err)
	}
	w.metrics.DecisionsTotal.WithLabelValues(domain.ActionApprove, "ok").Inc()
	w.metrics.DeliveriesTotal.WithLabelValues("ok").Inc()

	w.logger.Info("secret delivered",
		zap.String("requester", req.Requester.Email),
		zap.String("approver", approver.Email),
		zap.String("project", req.ProjectName),
		zap.String("secret", req.SecretName),
	)
	return ApprovedCard(w.render, req, approver), nil
}

func (w *Workflow) deliver(ctx context.Context, req *domain.PendingRequest, enclave *memguard.Enclave) error {
	// Значение живет в открытом виде только на время отправки
	buf, err := enclave.Open()
	if err != nil {
		return fmt.Errorf("open secret buffer: %w", err)
	}
	defer buf.Destroy()

	text := w.render.T(msgDMSecret, req.ProjectName, req.SecretName, req.SecretVersion, buf.String())
	return w.messenger.PostDirectMessage(ctx, req.Requester.Name, text)
}

func (w *Workflow) updatePendingGauge(ctx context.Context) {
	if n, err := w.store.Size(ctx); err == nil {
		w.metrics.PendingRequests.Set(float64(n))
	}
}

func textMessage(text string) *chat.Message {
	return &chat.Message{Text: text}
}
