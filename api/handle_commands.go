package api

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"KarmaTally/db"
)

func handleCommand(msg *Message) {
	command := strings.ToLower(strings.Fields(msg.Text)[0])
	// commands in groups may arrive as /top@BotName
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	switch command {
	case "/stats":
		handleStatsCommand(msg)
	case "/top":
		handleTopCommand(msg)
	case "/invite":
		handleInviteCommand(msg)
	case "/help", "/start":
		reply(msg.Chat.ID, "Commands: /stats, /top, /invite.\n\n"+digestConfigHint)
	}
}

// handleStatsCommand replies with the counters of the caller, or of
// the replied-to user when the command is sent as a reply.
func handleStatsCommand(msg *Message) {
	target := *msg.From
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		target = *msg.ReplyToMessage.From
	}

	stats, err := db.GetStats(msg.Chat.ID, target.ID)
	if err != nil {
		log.Printf("[ERROR] /stats failed for chat %d user %d: %v\n", msg.Chat.ID, target.ID, err)
		reply(msg.Chat.ID, "Couldn't fetch stats right now, please try again.")
		return
	}

	text := fmt.Sprintf("Stats for %s:\n• messages: %d\n• karma: %d\n• karma given: %d\n• invites pending: %d\n• invites confirmed: %d",
		displayName(msg.Chat.ID, target.ID),
		stats.Messages, stats.Karma, stats.KarmaGiven, stats.InvitesPending, stats.InvitesConfirmed)
	reply(msg.Chat.ID, text)
}

func handleTopCommand(msg *Message) {
	entries, err := db.TopN(msg.Chat.ID, 10)
	if err != nil {
		log.Printf("[ERROR] /top failed for chat %d: %v\n", msg.Chat.ID, err)
		reply(msg.Chat.ID, "Couldn't fetch the leaderboard right now, please try again.")
		return
	}
	if len(entries) == 0 {
		reply(msg.Chat.ID, "No activity tracked in this chat yet.")
		return
	}
	reply(msg.Chat.ID, formatLeaderboard(entries))
}

func formatLeaderboard(entries []db.TopEntry) string {
	var b strings.Builder
	b.WriteString("🏆 Chat leaderboard:\n")
	for i, entry := range entries {
		b.WriteString(fmt.Sprintf("%d. %s — %d karma, %d invites, %d messages\n",
			i+1, userDisplayName(entry.User),
			entry.Stats.Karma, entry.Stats.InvitesConfirmed, entry.Stats.Messages))
	}
	return b.String()
}

// SendDigest posts the scheduled leaderboard digest into a chat.
func SendDigest(chatID int64, entries []db.TopEntry) error {
	return SendMessage(chatID, "📊 Daily digest\n\n"+formatLeaderboard(entries))
}

// handleInviteCommand hands the caller their personal invite link,
// minting one through the platform on first use and reusing the stored
// token afterwards.
func handleInviteCommand(msg *Message) {
	inviter := *msg.From
	link, err := db.GetOrCreateInviteLink(msg.Chat.ID, inviter.ID, func() (string, error) {
		return CreateChatInviteLink(msg.Chat.ID, inviteLinkName(inviter))
	})
	if err != nil {
		log.Printf("[ERROR] /invite failed for chat %d user %d: %v\n", msg.Chat.ID, inviter.ID, err)
		reply(msg.Chat.ID, "Couldn't create your invite link right now, please try again.")
		return
	}
	reply(msg.Chat.ID, fmt.Sprintf("Your invite link for this chat:\n%s\n\nInvites are confirmed once the invited member sticks around and starts chatting.", link))
}

func inviteLinkName(u TgUser) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return fmt.Sprintf("invited by %s", name)
}

func isDigestConfigText(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "digest time ") || strings.HasPrefix(lower, "timezone ")
}

// handleDigestConfig mirrors the /stats family but for the digest
// schedule; only chat admins may change it.
func handleDigestConfig(msg *Message) {
	status, err := GetChatMemberStatus(msg.Chat.ID, msg.From.ID)
	if err != nil {
		log.Printf("[ERROR] Admin check failed for chat %d user %d: %v\n", msg.Chat.ID, msg.From.ID, err)
		return
	}
	if status != "creator" && status != "administrator" {
		reply(msg.Chat.ID, "Sorry, only chat admins can change the digest settings.")
		log.Printf("[INFO] Unauthorized digest config attempt by user %d in chat %d\n", msg.From.ID, msg.Chat.ID)
		return
	}

	if err := ensureChatConfig(msg.Chat); err != nil {
		log.Printf("[ERROR] Failed to ensure chat config for chat %d: %v\n", msg.Chat.ID, err)
		return
	}

	var updates, errs []string
	handleDigestTimeConfig(msg.Chat.ID, msg.Text, &updates, &errs)
	handleTimezoneConfig(msg.Chat.ID, msg.Text, &updates, &errs)
	sendConfigResponse(msg.Chat.ID, updates, errs)
}

func ensureChatConfig(chat Chat) error {
	if _, err := db.GetChatConfig(chat.ID); err == nil {
		return nil
	}
	return db.SaveChatConfig(db.ChatConfig{ChatID: chat.ID, Title: chat.Title})
}

func handleDigestTimeConfig(chatID int64, text string, updates, errs *[]string) {
	if timeStr := extractValue(text, `(?i)digest time (\d{2}:\d{2})`); timeStr != "" {
		if _, err := time.Parse("15:04", timeStr); err == nil {
			if err := db.UpdateDigestTime(chatID, timeStr); err == nil {
				*updates = append(*updates, fmt.Sprintf("digest time set to %s", timeStr))
				log.Printf("[INFO] Digest time updated for chat %d to %s\n", chatID, timeStr)
			} else {
				*errs = append(*errs, "Failed to set the digest time.")
				log.Printf("[ERROR] Failed to update digest time for chat %d: %v\n", chatID, err)
			}
		} else {
			*errs = append(*errs, "That time format looks a bit off. Please use the 24-hour format, like `digest time 18:00`.")
			log.Printf("[ERROR] Invalid digest time format in chat %d: %s\n", chatID, timeStr)
		}
	}
}

func handleTimezoneConfig(chatID int64, text string, updates, errs *[]string) {
	if zone := extractValue(text, `(?i)timezone ([A-Za-z]+/[A-Za-z_]+)`); zone != "" {
		if _, err := time.LoadLocation(zone); err == nil {
			if err := db.UpdateTimezone(chatID, zone); err == nil {
				*updates = append(*updates, fmt.Sprintf("timezone set to %s", zone))
				log.Printf("[INFO] Timezone updated for chat %d to %s\n", chatID, zone)
			} else {
				*errs = append(*errs, "Couldn't update the chat's timezone.")
				log.Printf("[ERROR] Failed to update timezone for chat %d: %v\n", chatID, err)
			}
		} else {
			*errs = append(*errs, fmt.Sprintf("Hmm, '%s' doesn't seem to be a valid timezone. Try something like `timezone Asia/Kolkata`.", zone))
			log.Printf("[ERROR] Invalid timezone value in chat %d: %s\n", chatID, zone)
		}
	}
}

func extractValue(text, pattern string) string {
	re := regexp.MustCompile(pattern)
	matches := re.FindStringSubmatch(text)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

func sendConfigResponse(chatID int64, updates, errs []string) {
	var response strings.Builder

	if len(updates) > 0 {
		response.WriteString("✅ Updated:\n")
		for _, u := range updates {
			response.WriteString("• " + u + "\n")
		}
	}
	if len(errs) > 0 {
		if len(updates) > 0 {
			response.WriteString("\n")
		}
		response.WriteString("⚠️ Some settings didn't stick:\n")
		for _, e := range errs {
			response.WriteString("• " + e + "\n")
		}
	}
	if response.Len() == 0 {
		response.WriteString(digestConfigHint)
	}

	reply(chatID, response.String())
}

func reply(chatID int64, text string) {
	if err := SendMessage(chatID, text); err != nil {
		log.Printf("[ERROR] Failed to send reply to chat %d: %v\n", chatID, err)
	}
}

func displayName(chatID, userID int64) string {
	user, err := db.GetChatUser(chatID, userID)
	if err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	return userDisplayName(*user)
}

func userDisplayName(user db.ChatUser) string {
	if user.Username != "" {
		return "@" + user.Username
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		return name
	}
	return fmt.Sprintf("user %d", user.UserID)
}
