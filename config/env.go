package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not loaded")
		}
	}
}

// CooldownWindow is the minimum gap between two successful karma
// grants from the same giver.
func CooldownWindow() time.Duration {
	return time.Duration(envInt("KARMA_COOLDOWN_SECONDS", 30)) * time.Second
}

// ConfirmDelay is how long an invited member must stay in the chat
// before their join can confirm.
func ConfirmDelay() time.Duration {
	return time.Duration(envInt("CONFIRM_DELAY_HOURS", 24)) * time.Hour
}

// ConfirmMinMessages is the activity floor an invited member must
// reach before their join can confirm.
func ConfirmMinMessages() int64 {
	return int64(envInt("CONFIRM_MIN_MESSAGES", 3))
}

// SweepBatchLimit bounds how many pending joins one event may
// evaluate.
func SweepBatchLimit() int {
	return envInt("SWEEP_BATCH_LIMIT", 10)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("[ERROR] Invalid %s value '%s', using default %d\n", key, raw, fallback)
		return fallback
	}
	return value
}
