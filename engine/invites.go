package engine

import (
	"time"

	"KarmaTally/db"
)

// RecordJoin attributes a member join to an inviter when the observed
// token matches a stored invite link, then tracks the join for later
// confirmation. Duplicate join notifications for the same user are
// ignored; the first join wins.
func RecordJoin(chatID, joinedUserID int64, inviteToken string, now time.Time) error {
	inviterID, err := db.ResolveInviter(chatID, inviteToken)
	if err != nil {
		return err
	}
	return db.RecordJoin(chatID, joinedUserID, inviterID, now)
}

// ConfirmEligible promotes up to batchLimit pending joins in the chat
// whose dwell time and activity thresholds are both met. There is no
// scheduled job behind this: the sweep only runs when the chat sees
// traffic, so a silent chat confirms nothing until a new event
// arrives, and a join that misses a threshold simply stays pending for
// a later sweep.
func ConfirmEligible(chatID int64, now time.Time, batchLimit int) error {
	joins, err := db.PendingJoins(chatID, batchLimit)
	if err != nil {
		return err
	}

	for _, join := range joins {
		if now.Sub(join.JoinedAt) < ConfirmDelay {
			continue
		}
		stats, err := db.GetStats(chatID, join.JoinedUserID)
		if err != nil {
			return err
		}
		if stats.Messages < ConfirmMinMessages {
			continue
		}
		if err := db.ConfirmJoin(join); err != nil {
			return err
		}
	}
	return nil
}
