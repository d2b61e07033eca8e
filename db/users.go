package db

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// UpsertChatUser records the last-known profile of a user in a chat.
// Last write wins; rows are never deleted.
func UpsertChatUser(user ChatUser) error {
	user.UpdatedAt = time.Now().UTC()
	err := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("UpsertChatUser: chat %d user %d: %w", user.ChatID, user.UserID, err)
	}
	return nil
}

func GetChatUser(chatID, userID int64) (*ChatUser, error) {
	var user ChatUser
	err := DB.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&user).Error
	return &user, err
}
