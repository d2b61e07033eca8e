package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrKarmaCooldown reports that the giver granted karma too recently.
var ErrKarmaCooldown = errors.New("karma cooldown active")

// ApplyKarmaGrant refreshes the giver's cooldown row and applies the
// paired karma/karmaGiven increments in one transaction. The cooldown
// is per giver across all recipients. When the giver is still inside
// the window nothing is written and ErrKarmaCooldown is returned.
func ApplyKarmaGrant(chatID, giverID, recipientID int64, now time.Time, window time.Duration) error {
	err := DB.Transaction(func(tx *gorm.DB) error {
		var cooldown KarmaCooldown
		err := tx.Where("chat_id = ? AND giver_id = ?", chatID, giverID).First(&cooldown).Error
		switch {
		case err == nil:
			if now.Sub(cooldown.LastGrantedAt) < window {
				return ErrKarmaCooldown
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// never granted before, not rate-limited
		default:
			return err
		}

		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "giver_id"}},
			DoUpdates: clause.Assignments(map[string]any{"last_granted_at": now}),
		}).Create(&KarmaCooldown{ChatID: chatID, GiverID: giverID, LastGrantedAt: now}).Error
		if err != nil {
			return err
		}

		if err := ensureStatsTx(tx, chatID, recipientID); err != nil {
			return err
		}
		if err := ensureStatsTx(tx, chatID, giverID); err != nil {
			return err
		}

		err = tx.Model(&Stats{}).
			Where("chat_id = ? AND user_id = ?", chatID, recipientID).
			UpdateColumn("karma", gorm.Expr("karma + 1")).Error
		if err != nil {
			return err
		}
		return tx.Model(&Stats{}).
			Where("chat_id = ? AND user_id = ?", chatID, giverID).
			UpdateColumn("karma_given", gorm.Expr("karma_given + 1")).Error
	})
	if err != nil {
		if errors.Is(err, ErrKarmaCooldown) {
			return ErrKarmaCooldown
		}
		return fmt.Errorf("ApplyKarmaGrant: chat %d giver %d: %w", chatID, giverID, err)
	}
	return nil
}
