package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных бота в Redis
	RedisNamespace = "secretbot"
)

// Ключи реестра заявок
const (
	RedisKeyRequests = RedisNamespace + ":requests:"
	// RequestKeyPattern — маска для подсчета живых заявок через SCAN
	RequestKeyPattern = RedisKeyRequests + "*"
)

// RequestKey Генератор ключа для конкретной заявки
func RequestKey(id string) string {
	return fmt.Sprintf("%s%s", RedisKeyRequests, id)
}
