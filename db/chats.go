package db

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// SaveChatConfig upserts the per-chat digest settings.
func SaveChatConfig(cfg ChatConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	err := DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "digest_time", "timezone", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		return fmt.Errorf("SaveChatConfig: chat %d: %w", cfg.ChatID, err)
	}
	return nil
}

func GetChatConfig(chatID int64) (*ChatConfig, error) {
	var cfg ChatConfig
	err := DB.Where("chat_id = ?", chatID).First(&cfg).Error
	return &cfg, err
}

func GetAllChatConfigs() ([]ChatConfig, error) {
	var configs []ChatConfig
	err := DB.Find(&configs).Error
	return configs, err
}

func UpdateDigestTime(chatID int64, digestTime string) error {
	return DB.Model(&ChatConfig{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]any{
			"digest_time": digestTime,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func UpdateTimezone(chatID int64, timezone string) error {
	return DB.Model(&ChatConfig{}).
		Where("chat_id = ?", chatID).
		Updates(map[string]any{
			"timezone":   timezone,
			"updated_at": time.Now().UTC(),
		}).Error
}
