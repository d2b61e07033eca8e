package db

import "time"

// ChatUser is the last-known profile of a user within one chat.
// Everything in this schema is scoped per chat; no row is shared
// across chats.
type ChatUser struct {
	ID        uint  `gorm:"primaryKey"`
	ChatID    int64 `gorm:"uniqueIndex:idx_chat_user;not null"`
	UserID    int64 `gorm:"uniqueIndex:idx_chat_user;not null"`
	Username  string
	FirstName string
	LastName  string
	UpdatedAt time.Time
}

// Stats holds the per-(chat, user) counters. Rows start zeroed and are
// mutated only through atomic UPDATE expressions, never replaced.
type Stats struct {
	ID               uint  `gorm:"primaryKey"`
	ChatID           int64 `gorm:"uniqueIndex:idx_chat_stats;not null"`
	UserID           int64 `gorm:"uniqueIndex:idx_chat_stats;not null"`
	Messages         int64 `gorm:"not null;default:0"`
	Karma            int64 `gorm:"not null;default:0"`
	KarmaGiven       int64 `gorm:"not null;default:0"`
	InvitesPending   int64 `gorm:"not null;default:0"`
	InvitesConfirmed int64 `gorm:"not null;default:0"`
}

// KarmaCooldown remembers when a giver last granted karma in a chat.
// Absence of a row means the giver has never granted and is not
// rate-limited.
type KarmaCooldown struct {
	ID            uint      `gorm:"primaryKey"`
	ChatID        int64     `gorm:"uniqueIndex:idx_chat_giver;not null"`
	GiverID       int64     `gorm:"uniqueIndex:idx_chat_giver;not null"`
	LastGrantedAt time.Time `gorm:"not null"`
}

// InviteLink is the single durable invite token owned by one inviter
// in one chat. Minted once, reused forever, never rotated or revoked.
type InviteLink struct {
	ID        uint   `gorm:"primaryKey"`
	ChatID    int64  `gorm:"uniqueIndex:idx_chat_inviter;uniqueIndex:idx_chat_token;not null"`
	InviterID int64  `gorm:"uniqueIndex:idx_chat_inviter;not null"`
	Token     string `gorm:"uniqueIndex:idx_chat_token;not null"`
	CreatedAt time.Time
}

// InviteJoin tracks one user's join into a chat and its confirmation
// state. The first join wins; Confirmed flips false to true exactly
// once and never reverts. InviterID is nil when the join could not be
// attributed to a stored invite link.
type InviteJoin struct {
	ID           uint      `gorm:"primaryKey"`
	ChatID       int64     `gorm:"uniqueIndex:idx_chat_joined;not null"`
	JoinedUserID int64     `gorm:"uniqueIndex:idx_chat_joined;not null"`
	InviterID    *int64    `gorm:"index"`
	JoinedAt     time.Time `gorm:"not null"`
	Confirmed    bool      `gorm:"not null;default:false"`
}

// ChatConfig carries the per-chat digest schedule. Blank DigestTime or
// Timezone keeps the digest disabled for the chat.
type ChatConfig struct {
	ID         uint  `gorm:"primaryKey"`
	ChatID     int64 `gorm:"uniqueIndex;not null"`
	Title      string
	DigestTime string
	Timezone   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
