package bot

import (
	chat "google.golang.org/api/chat/v1"

	"github.com/xela07ax/secret-approval-bot/internal/domain"
)

// ParamRequestID — единственный параметр, который несут кнопки карточки.
// Диспетчер восстанавливает ID заявки из него при клике.
const ParamRequestID = "requestId"

const cardImageURL = "https://www.gstatic.com/images/branding/product/1x/google_cloud_48dp.png"

// PendingCard рендерит карточку ожидающей заявки с кнопками APPROVE/DENY.
// Чистая функция от входов, реестр не трогает.
func PendingCard(r *Renderer, id string, req *domain.PendingRequest) *chat.Message {
	widgets := requestWidgets(r, req)
	widgets = append(widgets,
		&chat.WidgetMarkup{KeyValue: &chat.KeyValue{
			TopLabel: r.T(cardLabelStatus),
			Content:  r.T(cardStatusPending),
		}},
		&chat.WidgetMarkup{Buttons: []*chat.Button{
			actionButton(r.T(cardButtonApprove), domain.ActionApprove, id),
			actionButton(r.T(cardButtonDeny), domain.ActionDeny, id),
		}},
	)

	return &chat.Message{
		Cards: []*chat.Card{{
			Header: &chat.CardHeader{
				Title:    r.T(cardTitlePending),
				Subtitle: r.T(cardSubRequestedBy, req.Requester.Label()),
				ImageUrl: cardImageURL,
			},
			Sections: []*chat.Section{{Widgets: widgets}},
		}},
	}
}

// ApprovedCard рендерит финальное состояние после выдачи секрета.
func ApprovedCard(r *Renderer, req *domain.PendingRequest, approver domain.Requester) *chat.Message {
	return decisionCard(r, req, approver,
		r.T(cardTitleApproved),
		r.T(cardSubApprovedBy, approver.Label()),
		r.T(cardStatusApproved),
		r.T(cardLabelApprovedBy),
	)
}

// DeniedCard рендерит финальное состояние отказа.
func DeniedCard(r *Renderer, req *domain.PendingRequest, approver domain.Requester) *chat.Message {
	return decisionCard(r, req, approver,
		r.T(cardTitleDenied),
		r.T(cardSubDeniedBy, approver.Label()),
		r.T(cardStatusDenied),
		r.T(cardLabelDeniedBy),
	)
}

func decisionCard(r *Renderer, req *domain.PendingRequest, approver domain.Requester, title, subtitle, status, approverLabel string) *chat.Message {
	widgets := requestWidgets(r, req)
	widgets = append(widgets,
		&chat.WidgetMarkup{KeyValue: &chat.KeyValue{
			TopLabel: r.T(cardLabelStatus),
			Content:  status,
		}},
		&chat.WidgetMarkup{KeyValue: &chat.KeyValue{
			TopLabel: approverLabel,
			Content:  approver.Email,
			Icon:     "PERSON",
		}},
	)

	return &chat.Message{
		// UPDATE_MESSAGE: платформа заменяет исходную карточку на финальную
		ActionResponse: &chat.ActionResponse{Type: "UPDATE_MESSAGE"},
		Cards: []*chat.Card{{
			Header: &chat.CardHeader{
				Title:    title,
				Subtitle: subtitle,
				ImageUrl: cardImageURL,
			},
			Sections: []*chat.Section{{Widgets: widgets}},
		}},
	}
}

func requestWidgets(r *Renderer, req *domain.PendingRequest) []*chat.WidgetMarkup {
	return []*chat.WidgetMarkup{
		{KeyValue: &chat.KeyValue{TopLabel: r.T(cardLabelProject), Content: req.ProjectName, Icon: "BOOKMARK"}},
		{KeyValue: &chat.KeyValue{TopLabel: r.T(cardLabelSecret), Content: req.SecretName, Icon: "KEY"}},
		{KeyValue: &chat.KeyValue{TopLabel: r.T(cardLabelVersion), Content: req.SecretVersion, Icon: "DESCRIPTION"}},
		{KeyValue: &chat.KeyValue{TopLabel: r.T(cardLabelRequester), Content: req.Requester.Email, Icon: "PERSON"}},
	}
}

func actionButton(text, action, id string) *chat.Button {
	return &chat.Button{
		TextButton: &chat.TextButton{
			Text: text,
			OnClick: &chat.OnClick{
				Action: &chat.FormAction{
					ActionMethodName: action,
					// Ровно один параметр: непрозрачный ID заявки
					Parameters: []*chat.ActionParameter{{Key: ParamRequestID, Value: id}},
				},
			},
		},
	}
}
