package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	chatapi "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"
)

// GoogleMessenger доставляет сообщения через Google Chat API.
// Требует сервисный аккаунт со scope chat.bot.
type GoogleMessenger struct {
	svc    *chatapi.Service
	logger *zap.Logger
}

// NewGoogleMessenger создает клиента. Пустой credentialsFile означает Application Default Credentials.
func NewGoogleMessenger(ctx context.Context, credentialsFile string, logger *zap.Logger) (*GoogleMessenger, error) {
	opts := []option.ClientOption{option.WithScopes(chatapi.ChatBotScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := chatapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create chat service: %w", err)
	}

	return &GoogleMessenger{
		svc:    svc,
		logger: logger.Named("chat"),
	}, nil
}

// PostDirectMessage пишет сообщение в личный диалог с пользователем.
// parent — адресуемая ссылка пользователя (users/{id}); содержимое видно только ему.
func (m *GoogleMessenger) PostDirectMessage(ctx context.Context, parent, text string) error {
	_, err := m.svc.Spaces.Messages.Create(parent, &chatapi.Message{Text: text}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("post direct message to %s: %w", parent, err)
	}

	m.logger.Info("private message sent", zap.String("parent", parent))
	return nil
}
