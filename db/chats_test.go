package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveChatConfigUpserts(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveChatConfig(ChatConfig{ChatID: testChat, Title: "Gophers"}))
	require.NoError(t, UpdateDigestTime(testChat, "18:00"))
	require.NoError(t, UpdateTimezone(testChat, "Asia/Kolkata"))

	cfg, err := GetChatConfig(testChat)
	require.NoError(t, err)
	assert.Equal(t, "Gophers", cfg.Title)
	assert.Equal(t, "18:00", cfg.DigestTime)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)

	require.NoError(t, SaveChatConfig(ChatConfig{ChatID: testChat, Title: "Gophers v2", DigestTime: "18:00", Timezone: "Asia/Kolkata"}))
	configs, err := GetAllChatConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "Gophers v2", configs[0].Title)
}
