package bot

import (
	"fmt"

	i18n "github.com/goliatone/go-i18n"
)

// Ключи каталога сообщений
const (
	msgGreeting       = "bot.greeting"
	msgHelp           = "bot.help"
	msgUnknownCommand = "bot.unknown_command"
	msgUnauthorized   = "bot.unauthorized"
	msgNotFound       = "bot.not_found"
	msgUnknownAction  = "bot.unknown_action"
	msgVaultError     = "bot.vault_error"
	msgDMSecret       = "bot.dm_secret"

	cardTitlePending    = "card.title.pending"
	cardTitleApproved   = "card.title.approved"
	cardTitleDenied     = "card.title.denied"
	cardSubRequestedBy  = "card.subtitle.requested_by"
	cardSubApprovedBy   = "card.subtitle.approved_by"
	cardSubDeniedBy     = "card.subtitle.denied_by"
	cardLabelProject    = "card.label.project"
	cardLabelSecret     = "card.label.secret"
	cardLabelVersion    = "card.label.version"
	cardLabelRequester  = "card.label.requester"
	cardLabelStatus     = "card.label.status"
	cardLabelApprovedBy = "card.label.approved_by"
	cardLabelDeniedBy   = "card.label.denied_by"
	cardStatusPending   = "card.status.pending"
	cardStatusApproved  = "card.status.approved"
	cardStatusDenied    = "card.status.denied"
	cardButtonApprove   = "card.button.approve"
	cardButtonDeny      = "card.button.deny"
)

// Translations возвращает каталоги выдаваемых текстов.
// Исторически существовали две копии бота (английская и португальская) —
// здесь это один код и параметр bot.locale.
func Translations() i18n.Translations {
	return i18n.Translations{
		"en": newCatalog("en", map[string]string{
			msgGreeting: "👋 Hello! I am the Secret Management Bot.\n\n" +
				"To request a secret, use:\n`/secret <project-name> <secret-name> [version]`\n\n" +
				"Examples:\n`/secret my-project database-password` (version 'latest')\n" +
				"`/secret my-project database-password 3` (specific version)\n\n" +
				"Approvers will be notified and can approve your request. Once approved, you will receive the secret privately.",
			msgHelp: "📚 **Secret Management Bot Help**\n\n" +
				"**Request a secret:**\n`/secret <project-name> <secret-name> [version]`\n\n" +
				"Examples:\n`/secret my-gcp-project api-key` (uses version 'latest')\n" +
				"`/secret my-gcp-project api-key 5` (uses a specific version)\n\n" +
				"Authorized approvers will be notified and can approve your request. Once approved, you will receive the secret in a private message.",
			msgUnknownCommand: "Unknown command. Use `/secret <project-name> <secret-name> [version]` to request a secret, or type \"help\" for more information.",
			msgUnauthorized:   "❌ Not authorized: %s is not in the approver list.",
			msgNotFound:       "❌ Request not found or already processed.",
			msgUnknownAction:  "Unknown action.",
			msgVaultError: "❌ Error fetching secret: %s\n\nPlease make sure that:\n" +
				"- The project name is correct\n- The secret exists\n" +
				"- The service account has the Secret Manager Secret Accessor role\n\nHint: %s",
			msgDMSecret: "🔐 **Secret Delivered**\n\n**Project:** %s\n**Secret:** %s\n**Version:** %s\n\n```\n%s\n```\n\n" +
				"⚠️ **Important:** Store this secret safely and delete this message after copying it.",
			cardTitlePending:    "🔐 Secret Access Request",
			cardTitleApproved:   "✅ Secret Access Approved",
			cardTitleDenied:     "❌ Secret Access Denied",
			cardSubRequestedBy:  "Requested by %s",
			cardSubApprovedBy:   "Approved by %s",
			cardSubDeniedBy:     "Denied by %s",
			cardLabelProject:    "Project",
			cardLabelSecret:     "Secret Name",
			cardLabelVersion:    "Version",
			cardLabelRequester:  "Requester",
			cardLabelStatus:     "Status",
			cardLabelApprovedBy: "Approved By",
			cardLabelDeniedBy:   "Denied By",
			cardStatusPending:   "⏳ Awaiting Approval",
			cardStatusApproved:  "✅ Approved and sent privately",
			cardStatusDenied:    "❌ Access Denied",
			cardButtonApprove:   "✅ APPROVE",
			cardButtonDeny:      "❌ DENY",
		}),
		"pt-BR": newCatalog("pt-BR", map[string]string{
			msgGreeting: "👋 Olá! Sou o Bot de Gerenciamento de Secrets.\n\n" +
				"Para solicitar um secret, use o comando:\n`/secret <nome-do-projeto> <nome-do-secret> [versão]`\n\n" +
				"Exemplos:\n`/secret meu-projeto senha-database` (versão 'latest')\n" +
				"`/secret meu-projeto senha-database 3` (versão específica)\n\n" +
				"Os aprovadores serão notificados e poderão aprovar sua solicitação. Após aprovado, você receberá o secret de forma privada.",
			msgHelp: "📚 **Ajuda do Bot de Gerenciamento de Secrets**\n\n" +
				"**Solicitar um secret:**\n`/secret <nome-do-projeto> <nome-do-secret> [versão]`\n\n" +
				"Exemplos:\n`/secret meu-projeto-gcp chave-api` (usa versão 'latest')\n" +
				"`/secret meu-projeto-gcp chave-api 5` (usa versão específica)\n\n" +
				"Aprovadores autorizados receberão uma notificação e poderão aprovar sua solicitação. Após aprovado, você receberá o secret em uma mensagem privada.",
			msgUnknownCommand: "Comando desconhecido. Use `/secret <nome-do-projeto> <nome-do-secret> [versão]` para solicitar um secret, ou digite \"help\" para mais informações.",
			msgUnauthorized:   "❌ Não autorizado: %s não está na lista de aprovadores.",
			msgNotFound:       "❌ Solicitação não encontrada ou já processada.",
			msgUnknownAction:  "Ação desconhecida.",
			msgVaultError: "❌ Erro ao buscar secret: %s\n\nPor favor, certifique-se de que:\n" +
				"- O nome do projeto está correto\n- O secret existe\n" +
				"- A conta de serviço tem a role Secret Manager Secret Accessor\n\nDica: %s",
			msgDMSecret: "🔐 **Secret Entregue**\n\n**Projeto:** %s\n**Secret:** %s\n**Versão:** %s\n\n```\n%s\n```\n\n" +
				"⚠️ **Importante:** Armazene este secret de forma segura e delete esta mensagem após copiá-lo.",
			cardTitlePending:    "🔐 Solicitação de Acesso ao Secret",
			cardTitleApproved:   "✅ Acesso ao Secret Aprovado",
			cardTitleDenied:     "❌ Acesso ao Secret Negado",
			cardSubRequestedBy:  "Solicitado por %s",
			cardSubApprovedBy:   "Aprovado por %s",
			cardSubDeniedBy:     "Negado por %s",
			cardLabelProject:    "Projeto",
			cardLabelSecret:     "Nome do Secret",
			cardLabelVersion:    "Versão",
			cardLabelRequester:  "Solicitante",
			cardLabelStatus:     "Status",
			cardLabelApprovedBy: "Aprovado Por",
			cardLabelDeniedBy:   "Negado Por",
			cardStatusPending:   "⏳ Aguardando Aprovação",
			cardStatusApproved:  "✅ Aprovado e enviado privadamente",
			cardStatusDenied:    "❌ Acesso Negado",
			cardButtonApprove:   "✅ APROVAR",
			cardButtonDeny:      "❌ NEGAR",
		}),
	}
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}

// Renderer отдает тексты в локали из конфига с откатом на английский.
type Renderer struct {
	translator i18n.Translator
	locale     string
}

func NewRenderer(locale string) (*Renderer, error) {
	store := i18n.NewStaticStore(Translations())
	translator, err := i18n.NewSimpleTranslator(store, i18n.WithTranslatorDefaultLocale("en"))
	if err != nil {
		return nil, fmt.Errorf("build translator: %w", err)
	}
	if locale == "" {
		locale = "en"
	}
	return &Renderer{translator: translator, locale: locale}, nil
}

// T переводит ключ; при отсутствии перевода возвращает сам ключ,
// чтобы пользователь получил хоть что-то вместо пустого сообщения
func (r *Renderer) T(key string, args ...any) string {
	out, err := r.translator.Translate(r.locale, key, args...)
	if err != nil || out == "" {
		return key
	}
	return out
}
