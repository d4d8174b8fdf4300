package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	chat "google.golang.org/api/chat/v1"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
	"github.com/xela07ax/secret-approval-bot/internal/registry"
)

// Типы событий вебхука чат-платформы
const (
	EventAddedToSpace     = "ADDED_TO_SPACE"
	EventRemovedFromSpace = "REMOVED_FROM_SPACE"
	EventMessage          = "MESSAGE"
	EventCardClicked      = "CARD_CLICKED"
)

// Dispatcher маршрутизирует входящие события по обработчикам.
// Неизвестные и кривые события всегда получают пустой ack — процесс не падает.
type Dispatcher struct {
	store    registry.Store
	workflow *Workflow
	render   *Renderer
	metrics  *Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewDispatcher(
	store registry.Store,
	workflow *Workflow,
	render *Renderer,
	metrics *Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		workflow: workflow,
		render:   render,
		metrics:  metrics,
		logger:   logger.Named("dispatcher"),
		now:      time.Now,
	}
}

// Handle обрабатывает одно событие и возвращает JSON-ответ для платформы.
// Ошибка отсюда означает сбой обработки: верхний слой превратит её в 500 + текст.
func (d *Dispatcher) Handle(ctx context.Context, event *domain.Event) (*chat.Message, error) {
	d.metrics.EventsTotal.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case EventAddedToSpace:
		return textMessage(d.render.T(msgGreeting)), nil

	case EventRemovedFromSpace:
		d.logger.Info("bot removed from space")
		return &chat.Message{}, nil

	case EventMessage:
		return d.handleMessage(ctx, event)

	case EventCardClicked:
		if event.Action == nil || event.User == nil {
			// Кривое тело без action — молча подтверждаем
			return &chat.Message{}, nil
		}
		return d.workflow.HandleClick(ctx, event)

	default:
		// Неизвестный тип события — не ошибка
		return &chat.Message{}, nil
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, event *domain.Event) (*chat.Message, error) {
	if event.Message == nil || event.User == nil {
		return &chat.Message{}, nil
	}
	text := event.Message.Text

	d.logger.Info("message received",
		zap.String("sender", event.User.Email),
		zap.String("text", text),
	)

	if cmd, ok := ParseCommand(text); ok {
		return d.registerRequest(ctx, event, cmd)
	}

	if IsHelpRequest(text) {
		return textMessage(d.render.T(msgHelp)), nil
	}

	return textMessage(d.render.T(msgUnknownCommand)), nil
}

// registerRequest кладет заявку в реестр и отвечает карточкой ожидания
func (d *Dispatcher) registerRequest(ctx context.Context, event *domain.Event, cmd SecretRequest) (*chat.Message, error) {
	req := &domain.PendingRequest{
		Requester:     event.User.Requester(),
		ProjectName:   cmd.ProjectName,
		SecretName:    cmd.SecretName,
		SecretVersion: cmd.SecretVersion,
		CreatedAt:     d.now().UTC(),
	}
	if event.Space != nil {
		req.OriginSpace = event.Space.Name
	}
	if event.Message.Thread != nil {
		req.OriginThread = event.Message.Thread.Name
	}

	id, err := d.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register request: %w", err)
	}

	if n, err := d.store.Size(ctx); err == nil {
		d.metrics.PendingRequests.Set(float64(n))
	}

	d.logger.Info("approval request created",
		zap.String("request_id", id),
		zap.String("requester", req.Requester.Email),
		zap.String("project", req.ProjectName),
		zap.String("secret", req.SecretName),
		zap.String("version", req.SecretVersion),
	)
	return PendingCard(d.render, id, req), nil
}
