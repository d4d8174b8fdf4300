package registry

import (
	"context"
	"sync"
	"time"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
)

type memoryEntry struct {
	req       *domain.PendingRequest
	expiresAt time.Time // нулевое значение = без срока
}

// Memory — реестр в памяти процесса под мьютексом.
// Обычная map без защиты (как в прототипе) гонялась под конкурентными вебхуками,
// здесь create/get/consume сериализованы.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory создает реестр. ttl <= 0 отключает истечение — заявки живут до consume.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Create(ctx context.Context, req *domain.PendingRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := NewID()
	if _, exists := m.entries[id]; exists {
		// UUIDv4 практически не сталкивается, но живой ID перезаписывать нельзя
		return "", domain.ErrIDCollision
	}

	entry := memoryEntry{req: req}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[id] = entry
	return id, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*domain.PendingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok || m.expired(entry) {
		delete(m.entries, id)
		return nil, domain.ErrRequestNotFound
	}
	return entry.req, nil
}

func (m *Memory) Consume(ctx context.Context, id string) (*domain.PendingRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	delete(m.entries, id)
	if m.expired(entry) {
		return nil, domain.ErrRequestNotFound
	}
	return entry.req, nil
}

func (m *Memory) Size(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Попутно выметаем протухшие записи, чтобы счетчик не врал
	var n int64
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
			continue
		}
		n++
	}
	return n, nil
}

func (m *Memory) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)
}
