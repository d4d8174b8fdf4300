package domain

// Event — конверт входящего вебхука чат-платформы.
// Поля зависят от типа: Message у MESSAGE, Action у CARD_CLICKED.
type Event struct {
	Type    string        `json:"type"`
	User    *EventUser    `json:"user,omitempty"`
	Space   *EventSpace   `json:"space,omitempty"`
	Message *EventMessage `json:"message,omitempty"`
	Action  *EventAction  `json:"action,omitempty"`
}

// EventUser — действующее лицо события. Email сверяется со списком
// аппруверов, Name — адрес для приватной доставки.
type EventUser struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Type        string `json:"type,omitempty"`
}

// Requester конвертирует пользователя события в доменную модель
func (u *EventUser) Requester() Requester {
	if u == nil {
		return Requester{}
	}
	return Requester{Name: u.Name, DisplayName: u.DisplayName, Email: u.Email}
}

type EventSpace struct {
	Name string `json:"name"`
}

type EventThread struct {
	Name string `json:"name"`
}

type EventMessage struct {
	Text   string       `json:"text"`
	Thread *EventThread `json:"thread,omitempty"`
}

// EventAction — нажатая кнопка карточки: имя действия и параметры
type EventAction struct {
	ActionMethodName string           `json:"actionMethodName"`
	Parameters       []EventParameter `json:"parameters,omitempty"`
}

// Parameter возвращает значение параметра по ключу
func (a *EventAction) Parameter(key string) string {
	for _, p := range a.Parameters {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

type EventParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
