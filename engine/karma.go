package engine

import (
	"time"

	"KarmaTally/db"
)

// GrantKarma awards one karma point from giver to recipient. Self
// grants are rejected, and a giver inside the cooldown window is
// rejected regardless of recipient. On success the recipient's karma
// and the giver's karmaGiven move together or not at all.
func GrantKarma(chatID, giverID, recipientID int64, now time.Time) error {
	if giverID == recipientID {
		return ErrSelfKarma
	}
	return db.ApplyKarmaGrant(chatID, giverID, recipientID, now, CooldownWindow)
}
