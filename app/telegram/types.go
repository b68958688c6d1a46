package telegram

// Button is one inline keyboard link button.
type Button struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Message is the subset of the Bot API message object the pipeline needs.
type Message struct {
	MessageID int `json:"message_id"`
}

type apiResponse struct {
	OK          bool    `json:"ok"`
	Description string  `json:"description"`
	Result      Message `json:"result"`
}

type replyMarkup struct {
	InlineKeyboard [][]Button `json:"inline_keyboard"`
}

type photoPayload struct {
	ChatID      string       `json:"chat_id"`
	Photo       string       `json:"photo"`
	Caption     string       `json:"caption"`
	ParseMode   string       `json:"parse_mode"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type messagePayload struct {
	ChatID      string       `json:"chat_id"`
	Text        string       `json:"text"`
	ParseMode   string       `json:"parse_mode"`
	ReplyMarkup *replyMarkup `json:"reply_markup,omitempty"`
}

type pinPayload struct {
	ChatID              string `json:"chat_id"`
	MessageID           int    `json:"message_id"`
	DisableNotification bool   `json:"disable_notification"`
}
