package engine

import (
	"errors"
	"strings"
	"time"

	"KarmaTally/db"
)

// Tunables for the reduction rules. main overrides them from the
// environment at boot.
var (
	CooldownWindow     = 30 * time.Second
	ConfirmDelay       = 24 * time.Hour
	ConfirmMinMessages = int64(3)
	SweepBatchLimit    = 10
)

const commandPrefix = "/"

// UserRef identifies one chat member as seen on an incoming event.
type UserRef struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Event is one normalized chat event handed in by the transport.
// NewMembers is set on join events; InviteToken carries the link the
// members came in through, when the platform reported one.
type Event struct {
	ChatID      int64
	Actor       *UserRef
	Text        string
	ReplyTo     *UserRef
	NewMembers  []UserRef
	InviteToken string
}

// Reduce applies one event to the chat's counters: joins are recorded
// and the event ends there; otherwise plain text bumps the actor's
// message count, a "+" reply attempts a karma grant, and the event
// finishes with a bounded confirmation sweep. Cooldown and self-grant
// rejections are silent no-ops.
func Reduce(ev Event, now time.Time) error {
	if len(ev.NewMembers) > 0 {
		return reduceJoin(ev, now)
	}

	if ev.Actor == nil {
		return ErrInvalidEvent
	}
	if err := upsertIdentity(ev.ChatID, *ev.Actor); err != nil {
		return err
	}
	if ev.ReplyTo != nil {
		if err := upsertIdentity(ev.ChatID, *ev.ReplyTo); err != nil {
			return err
		}
	}

	if ev.Text != "" && !strings.HasPrefix(ev.Text, commandPrefix) {
		if err := db.IncrementMessages(ev.ChatID, ev.Actor.ID); err != nil {
			return err
		}
	}

	if ev.Text == "+" && ev.ReplyTo != nil {
		err := GrantKarma(ev.ChatID, ev.Actor.ID, ev.ReplyTo.ID, now)
		if err != nil && !errors.Is(err, ErrKarmaCooldown) && !errors.Is(err, ErrSelfKarma) {
			return err
		}
	}

	return ConfirmEligible(ev.ChatID, now, SweepBatchLimit)
}

func reduceJoin(ev Event, now time.Time) error {
	for _, member := range ev.NewMembers {
		if err := upsertIdentity(ev.ChatID, member); err != nil {
			return err
		}
		if err := RecordJoin(ev.ChatID, member.ID, ev.InviteToken, now); err != nil {
			return err
		}
	}
	return nil
}

func upsertIdentity(chatID int64, ref UserRef) error {
	return db.UpsertChatUser(db.ChatUser{
		ChatID:    chatID,
		UserID:    ref.ID,
		Username:  ref.Username,
		FirstName: ref.FirstName,
		LastName:  ref.LastName,
	})
}
