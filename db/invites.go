package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateInviteLink returns the chat-scoped invite token owned by
// the inviter, minting one through createFn on first use. A createFn
// failure writes no row, so the next call tries again.
func GetOrCreateInviteLink(chatID, inviterID int64, createFn func() (string, error)) (string, error) {
	var link InviteLink
	err := DB.Where("chat_id = ? AND inviter_id = ?", chatID, inviterID).First(&link).Error
	if err == nil {
		return link.Token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("GetOrCreateInviteLink: chat %d inviter %d: %w", chatID, inviterID, err)
	}

	token, err := createFn()
	if err != nil {
		return "", fmt.Errorf("GetOrCreateInviteLink: create link for chat %d inviter %d: %w", chatID, inviterID, err)
	}

	link = InviteLink{ChatID: chatID, InviterID: inviterID, Token: token, CreatedAt: time.Now().UTC()}
	err = DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return "", fmt.Errorf("GetOrCreateInviteLink: save link for chat %d inviter %d: %w", chatID, inviterID, err)
	}

	// A concurrent request may have stored its token first; the stored
	// row is the one that counts.
	if err := DB.Where("chat_id = ? AND inviter_id = ?", chatID, inviterID).First(&link).Error; err != nil {
		return "", fmt.Errorf("GetOrCreateInviteLink: reload link for chat %d inviter %d: %w", chatID, inviterID, err)
	}
	return link.Token, nil
}

// ResolveInviter maps an observed invite token back to its owner.
// Returns nil when the token is empty or unknown.
func ResolveInviter(chatID int64, token string) (*int64, error) {
	if token == "" {
		return nil, nil
	}
	var link InviteLink
	err := DB.Where("chat_id = ? AND token = ?", chatID, token).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ResolveInviter: chat %d: %w", chatID, err)
	}
	inviterID := link.InviterID
	return &inviterID, nil
}

// RecordJoin inserts the join record unless this user's join was
// already tracked (first join wins) and, when the join is attributed,
// bumps the inviter's pending counter. The insert and the counter move
// commit together.
func RecordJoin(chatID, joinedUserID int64, inviterID *int64, now time.Time) error {
	err := DB.Transaction(func(tx *gorm.DB) error {
		join := InviteJoin{ChatID: chatID, JoinedUserID: joinedUserID, InviterID: inviterID, JoinedAt: now}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&join)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// duplicate join notification, already tracked
			return nil
		}
		if inviterID == nil {
			return nil
		}
		if err := ensureStatsTx(tx, chatID, *inviterID); err != nil {
			return err
		}
		return tx.Model(&Stats{}).
			Where("chat_id = ? AND user_id = ?", chatID, *inviterID).
			UpdateColumn("invites_pending", gorm.Expr("invites_pending + 1")).Error
	})
	if err != nil {
		return fmt.Errorf("RecordJoin: chat %d user %d: %w", chatID, joinedUserID, err)
	}
	return nil
}

// PendingJoins returns up to limit unconfirmed attributed joins in the
// chat, oldest first. The bound keeps each sweep cheap regardless of
// backlog size.
func PendingJoins(chatID int64, limit int) ([]InviteJoin, error) {
	var joins []InviteJoin
	err := DB.Where("chat_id = ? AND confirmed = ? AND inviter_id IS NOT NULL", chatID, false).
		Order("joined_at ASC").
		Limit(limit).
		Find(&joins).Error
	if err != nil {
		return nil, fmt.Errorf("PendingJoins: chat %d: %w", chatID, err)
	}
	return joins, nil
}

// ConfirmJoin flips a pending join to confirmed and shifts the
// inviter's counters, saturating the pending decrement at zero. All
// three mutations commit together. A join already confirmed by a
// concurrent sweep is left alone.
func ConfirmJoin(join InviteJoin) error {
	err := DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&InviteJoin{}).
			Where("id = ? AND confirmed = ?", join.ID, false).
			UpdateColumn("confirmed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || join.InviterID == nil {
			return nil
		}
		return tx.Model(&Stats{}).
			Where("chat_id = ? AND user_id = ?", join.ChatID, *join.InviterID).
			Updates(map[string]any{
				"invites_pending":   gorm.Expr("CASE WHEN invites_pending > 0 THEN invites_pending - 1 ELSE 0 END"),
				"invites_confirmed": gorm.Expr("invites_confirmed + 1"),
			}).Error
	})
	if err != nil {
		return fmt.Errorf("ConfirmJoin: chat %d user %d: %w", join.ChatID, join.JoinedUserID, err)
	}
	return nil
}
