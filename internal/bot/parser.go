package bot

import (
	"regexp"
	"strings"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
)

// Грамматика команды: /secret <project> <secret> [version]
// Токен команды нечувствителен к регистру, аргументы разделены пробелами
var secretCommand = regexp.MustCompile(`(?i)^/secret\s+(\S+)\s+(\S+)(?:\s+(\S+))?`)

// SecretRequest — разобранные координаты секрета из текста сообщения.
type SecretRequest struct {
	ProjectName   string
	SecretName    string
	SecretVersion string
}

// ParseCommand распознает запрос секрета в свободном тексте.
// Чистая функция: реестра не касается, версия по умолчанию — latest.
func ParseCommand(text string) (SecretRequest, bool) {
	match := secretCommand.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return SecretRequest{}, false
	}

	version := match[3]
	if version == "" {
		version = domain.VersionLatest
	}
	return SecretRequest{
		ProjectName:   match[1],
		SecretName:    match[2],
		SecretVersion: version,
	}, true
}

// IsHelpRequest — голая команда без аргументов или любое упоминание help
func IsHelpRequest(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "/secret" || strings.Contains(strings.ToLower(trimmed), "help")
}
