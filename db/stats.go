package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureStats creates a zeroed counter row for (chat, user) if none
// exists yet. Safe to call on every event.
func EnsureStats(chatID, userID int64) error {
	err := DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Stats{ChatID: chatID, UserID: userID}).Error
	if err != nil {
		return fmt.Errorf("EnsureStats: chat %d user %d: %w", chatID, userID, err)
	}
	return nil
}

// IncrementMessages adds one to the user's message counter as a single
// UPDATE expression so concurrent writers cannot lose updates.
func IncrementMessages(chatID, userID int64) error {
	if err := EnsureStats(chatID, userID); err != nil {
		return err
	}
	err := DB.Model(&Stats{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		UpdateColumn("messages", gorm.Expr("messages + 1")).Error
	if err != nil {
		return fmt.Errorf("IncrementMessages: chat %d user %d: %w", chatID, userID, err)
	}
	return nil
}

// GetStats returns the counters for (chat, user). A user with no row
// yet gets zeroed counters rather than an error.
func GetStats(chatID, userID int64) (*Stats, error) {
	var stats Stats
	err := DB.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Stats{ChatID: chatID, UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetStats: chat %d user %d: %w", chatID, userID, err)
	}
	return &stats, nil
}

// TopEntry pairs a counter row with the owner's last-known profile.
type TopEntry struct {
	Stats Stats
	User  ChatUser
}

// TopN returns the chat leaderboard ordered by karma, then confirmed
// invites, then message volume.
func TopN(chatID int64, n int) ([]TopEntry, error) {
	var rows []Stats
	err := DB.Where("chat_id = ?", chatID).
		Order("karma DESC, invites_confirmed DESC, messages DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("TopN: chat %d: %w", chatID, err)
	}

	entries := make([]TopEntry, 0, len(rows))
	for _, row := range rows {
		entry := TopEntry{Stats: row, User: ChatUser{ChatID: chatID, UserID: row.UserID}}
		if user, err := GetChatUser(chatID, row.UserID); err == nil {
			entry.User = *user
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func ensureStatsTx(tx *gorm.DB, chatID, userID int64) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Stats{ChatID: chatID, UserID: userID}).Error
}
