package telegram

// Update - входящее обновление Telegram (только используемые поля)
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message - сообщение из чата
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// User - отправитель сообщения
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// Chat - чат, в который пришло сообщение
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// TextMessage возвращает id чата и текст, если обновление содержит текстовое сообщение
func (u *Update) TextMessage() (chatID int64, text string, ok bool) {
	if u == nil || u.Message == nil || u.Message.Text == "" {
		return 0, "", false
	}
	return u.Message.Chat.ID, u.Message.Text, true
}
