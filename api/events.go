package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"KarmaTally/engine"
	"KarmaTally/utils"
)

// HandleWebhook ingests one Telegram update, reduces it into the
// chat's counters and then routes any command it carried. The handler
// always answers 200 once the body parses, otherwise Telegram keeps
// redelivering the same update.
func HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unable to read request body", http.StatusBadRequest)
		return
	}

	var update Update
	if err := json.Unmarshal(body, &update); err != nil {
		http.Error(w, "Invalid update format", http.StatusBadRequest)
		return
	}

	seen, err := utils.SeenUpdate(r.Context(), update.UpdateID)
	if err != nil {
		log.Printf("[ERROR] Webhook dedup check failed for update %d: %v\n", update.UpdateID, err)
	}
	if seen {
		w.WriteHeader(http.StatusOK)
		return
	}

	now := time.Now().UTC()

	switch {
	case update.ChatMember != nil:
		handleMemberUpdate(update.ChatMember, now)
	case update.Message != nil:
		handleMessage(update.Message, now)
	}

	w.WriteHeader(http.StatusOK)
}

// handleMemberUpdate reduces a membership change into a join record.
// Only transitions into membership count; leaves and bans are ignored.
func handleMemberUpdate(mu *ChatMemberUpdated, now time.Time) {
	old := mu.OldChatMember.Status
	if old != memberStatusLeft && old != memberStatusKicked && old != "" {
		return
	}
	if mu.NewChatMember.Status != "member" {
		return
	}

	ev := engine.Event{
		ChatID:     mu.Chat.ID,
		NewMembers: []engine.UserRef{userRef(mu.NewChatMember.User)},
	}
	if mu.InviteLink != nil {
		ev.InviteToken = mu.InviteLink.InviteLink
	}

	if err := engine.Reduce(ev, now); err != nil {
		log.Printf("[ERROR] Failed to reduce join in chat %d: %v\n", mu.Chat.ID, err)
	}
}

func handleMessage(msg *Message, now time.Time) {
	ev := engine.Event{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil && !msg.From.IsBot {
		actor := userRef(*msg.From)
		ev.Actor = &actor
	}
	if len(msg.NewChatMembers) > 0 {
		// service message fallback for platforms configured without
		// chat_member updates; no invite token is available here
		for _, member := range msg.NewChatMembers {
			ev.NewMembers = append(ev.NewMembers, userRef(member))
		}
		ev.Text = ""
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		reply := userRef(*msg.ReplyToMessage.From)
		ev.ReplyTo = &reply
	}

	if err := engine.Reduce(ev, now); err != nil {
		if errors.Is(err, engine.ErrInvalidEvent) {
			log.Printf("[INFO] Dropped event without actor in chat %d\n", msg.Chat.ID)
		} else {
			log.Printf("[ERROR] Failed to reduce message in chat %d: %v\n", msg.Chat.ID, err)
		}
		return
	}

	if len(ev.NewMembers) > 0 || ev.Actor == nil {
		return
	}

	if strings.HasPrefix(msg.Text, "/") {
		handleCommand(msg)
	} else if isDigestConfigText(msg.Text) {
		handleDigestConfig(msg)
	}
}

func userRef(u TgUser) engine.UserRef {
	return engine.UserRef{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
