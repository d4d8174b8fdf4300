package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/xela07ax/secret-approval-bot/internal/domain"
)

// Store — контракт реестра ожидающих заявок.
// Consume атомарен: из двух конкурентных вызовов на один ID побеждает ровно один,
// второй получает domain.ErrRequestNotFound.
type Store interface {
	// Create генерирует свежий ID, сохраняет заявку и возвращает ID
	Create(ctx context.Context, req *domain.PendingRequest) (string, error)
	// Get — неразрушающее чтение
	Get(ctx context.Context, id string) (*domain.PendingRequest, error)
	// Consume забирает и удаляет запись; после вызова ID мертв навсегда
	Consume(ctx context.Context, id string) (*domain.PendingRequest, error)
	// Size — текущее число живых заявок (для healthcheck)
	Size(ctx context.Context) (int64, error)
}

// NewID выдает криптослучайный идентификатор заявки.
// Временная метка + суффикс из оригинальной схемы угадывались, UUIDv4 — нет.
func NewID() string {
	return uuid.NewString()
}
