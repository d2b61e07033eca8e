package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

func methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", telegramAPIBase, os.Getenv("BOT_TOKEN"), method)
}

func callMethod(method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("callMethod %s: failed to marshal payload: %w", method, err)
	}

	resp, err := httpClient.Post(methodURL(method), "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("callMethod %s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("callMethod %s: failed to decode response: %w", method, err)
	}
	return nil
}

// SendMessage posts a plain text reply into a chat.
func SendMessage(chatID int64, text string) error {
	payload := map[string]any{"chat_id": chatID, "text": text}
	var resp apiResponse
	if err := callMethod("sendMessage", payload, &resp); err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("SendMessage: Telegram API error: %s", resp.Description)
	}
	return nil
}

// CreateChatInviteLink mints a fresh named invite link for a chat.
// This is the external mint behind the one-token-per-inviter registry;
// callers go through db.GetOrCreateInviteLink, which only invokes this
// once per (chat, inviter).
func CreateChatInviteLink(chatID int64, name string) (string, error) {
	payload := map[string]any{"chat_id": chatID, "name": name}
	var resp inviteLinkResponse
	if err := callMethod("createChatInviteLink", payload, &resp); err != nil {
		return "", err
	}
	if !resp.Ok {
		return "", fmt.Errorf("CreateChatInviteLink: Telegram API error: %s", resp.Description)
	}
	return resp.Result.InviteLink, nil
}

// GetChatMemberStatus reports a user's membership status in a chat,
// used to gate config commands to admins.
func GetChatMemberStatus(chatID, userID int64) (string, error) {
	payload := map[string]any{"chat_id": chatID, "user_id": userID}
	var resp chatMemberResponse
	if err := callMethod("getChatMember", payload, &resp); err != nil {
		return "", err
	}
	if !resp.Ok {
		return "", fmt.Errorf("GetChatMemberStatus: Telegram API error: %s", resp.Description)
	}
	return resp.Result.Status, nil
}

func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
