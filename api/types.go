package api

// Telegram Bot API wire types, limited to the fields the bot reads.

type Update struct {
	UpdateID   int64              `json:"update_id"`
	Message    *Message           `json:"message"`
	ChatMember *ChatMemberUpdated `json:"chat_member"`
}

type Message struct {
	MessageID      int64    `json:"message_id"`
	From           *TgUser  `json:"from"`
	Chat           Chat     `json:"chat"`
	Date           int64    `json:"date"`
	Text           string   `json:"text"`
	ReplyToMessage *Message `json:"reply_to_message"`
	NewChatMembers []TgUser `json:"new_chat_members"`
}

type TgUser struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// ChatMemberUpdated is delivered when someone's membership changes; it
// is the only update kind that carries the invite link a member used.
type ChatMemberUpdated struct {
	Chat          Chat            `json:"chat"`
	From          TgUser          `json:"from"`
	Date          int64           `json:"date"`
	OldChatMember ChatMember      `json:"old_chat_member"`
	NewChatMember ChatMember      `json:"new_chat_member"`
	InviteLink    *ChatInviteLink `json:"invite_link"`
}

type ChatMember struct {
	User   TgUser `json:"user"`
	Status string `json:"status"`
}

type ChatInviteLink struct {
	InviteLink string `json:"invite_link"`
	Name       string `json:"name"`
}

type apiResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

type inviteLinkResponse struct {
	Ok          bool           `json:"ok"`
	Description string         `json:"description"`
	Result      ChatInviteLink `json:"result"`
}

type chatMemberResponse struct {
	Ok          bool       `json:"ok"`
	Description string     `json:"description"`
	Result      ChatMember `json:"result"`
}
