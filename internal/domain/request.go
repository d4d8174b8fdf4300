package domain

import (
	"errors"
	"time"
)

// Действия, которые может нести кнопка карточки
const (
	ActionApprove = "approve"
	ActionDeny    = "deny"
)

// VersionLatest — версия по умолчанию, если пользователь её не указал
const VersionLatest = "latest"

var (
	// ErrRequestNotFound — заявка не существует или уже обработана (consume одноразовый)
	ErrRequestNotFound = errors.New("pending request not found or already processed")
	// ErrIDCollision — сгенерированный ID уже занят живой заявкой
	ErrIDCollision = errors.New("pending request id collision")
)

// Requester — кто запросил секрет. Name — адресуемая ссылка (users/{id}),
// по ней открывается личный диалог для приватной доставки.
type Requester struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Label возвращает имя для отображения в карточке
func (r Requester) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Email
}

// PendingRequest — заявка на доступ к секрету, ожидающая решения аппрувера.
// Запись создается один раз и никогда не обновляется: первый approve/deny забирает её целиком.
type PendingRequest struct {
	Requester     Requester `json:"requester"`
	OriginSpace   string    `json:"origin_space"`
	OriginThread  string    `json:"origin_thread,omitempty"`
	ProjectName   string    `json:"project_name"`
	SecretName    string    `json:"secret_name"`
	SecretVersion string    `json:"secret_version"`
	CreatedAt     time.Time `json:"created_at"`
}
