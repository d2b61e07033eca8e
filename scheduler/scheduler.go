package scheduler

import (
	"log"
	"time"

	"KarmaTally/api"
	"KarmaTally/db"
)

// StartScheduler posts the leaderboard digest into each configured
// chat at its local digest time. Invite confirmation does not live
// here; that is swept lazily as chat events arrive.
func StartScheduler() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	log.Println("Scheduler started...")

	for t := range ticker.C {
		processSchedule(t)
	}
}

func processSchedule(now time.Time) {
	configs, err := db.GetAllChatConfigs()
	if err != nil {
		log.Println("Failed to fetch chat configs:", err)
		return
	}

	for _, cfg := range configs {
		if cfg.DigestTime == "" || cfg.Timezone == "" {
			continue
		}

		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Printf("Invalid timezone for chat %d: %s\n", cfg.ChatID, cfg.Timezone)
			continue
		}

		if now.In(loc).Format("15:04") == cfg.DigestTime {
			log.Printf("Posting digest for chat %d at %s (%s)", cfg.ChatID, cfg.DigestTime, cfg.Timezone)
			go postDigestForChat(cfg)
		}
	}
}

func postDigestForChat(cfg db.ChatConfig) {
	entries, err := db.TopN(cfg.ChatID, 10)
	if err != nil {
		log.Printf("postDigestForChat: error fetching leaderboard for chat %d: %v", cfg.ChatID, err)
		return
	}
	if len(entries) == 0 {
		log.Printf("postDigestForChat: no tracked activity in chat %d", cfg.ChatID)
		return
	}

	if err := api.SendDigest(cfg.ChatID, entries); err != nil {
		log.Printf("postDigestForChat: failed to post digest to chat %d: %v", cfg.ChatID, err)
	}
}
