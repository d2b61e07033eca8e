package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KarmaTally/db"
)

func member(id int64, username string) UserRef {
	return UserRef{ID: id, Username: username}
}

func textEvent(actor UserRef, text string) Event {
	return Event{ChatID: testChat, Actor: &actor, Text: text}
}

func replyEvent(actor, replyTo UserRef, text string) Event {
	ev := textEvent(actor, text)
	ev.ReplyTo = &replyTo
	return ev
}

func TestReduceCountsOnlyPlainMessages(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	alice := member(1, "alice")
	bob := member(2, "bob")

	inputs := []Event{
		textEvent(alice, "hello"),
		textEvent(bob, "hi alice"),
		textEvent(alice, "/top"),
		textEvent(alice, "how is everyone"),
		textEvent(bob, "good"),
		textEvent(alice, "/stats"),
		textEvent(bob, "you?"),
		textEvent(alice, "great"),
		textEvent(alice, ""),
	}
	for _, ev := range inputs {
		require.NoError(t, Reduce(ev, now))
		now = now.Add(time.Second)
	}

	aliceStats, err := db.GetStats(testChat, alice.ID)
	require.NoError(t, err)
	bobStats, err := db.GetStats(testChat, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), aliceStats.Messages)
	assert.Equal(t, int64(3), bobStats.Messages)
}

func TestReduceRequiresActor(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	err := Reduce(Event{ChatID: testChat, Text: "hello"}, now)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestReduceUpsertsIdentityLastWriteWins(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, Reduce(textEvent(UserRef{ID: 1, Username: "old_name"}, "hi"), now))
	require.NoError(t, Reduce(textEvent(UserRef{ID: 1, Username: "new_name", FirstName: "Ann"}, "hi again"), now.Add(time.Minute)))

	user, err := db.GetChatUser(testChat, 1)
	require.NoError(t, err)
	assert.Equal(t, "new_name", user.Username)
	assert.Equal(t, "Ann", user.FirstName)
}

func TestReducePlusReplyGrantsKarma(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	alice := member(1, "alice")
	bob := member(2, "bob")

	require.NoError(t, Reduce(replyEvent(alice, bob, "+"), now))

	bobStats, err := db.GetStats(testChat, bob.ID)
	require.NoError(t, err)
	aliceStats, err := db.GetStats(testChat, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobStats.Karma)
	assert.Equal(t, int64(1), aliceStats.KarmaGiven)
	// the "+" itself still counts as a message from the giver
	assert.Equal(t, int64(1), aliceStats.Messages)
}

func TestReducePlusWithoutReplyDoesNothing(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	alice := member(1, "alice")

	require.NoError(t, Reduce(textEvent(alice, "+"), now))
	require.NoError(t, Reduce(replyEvent(alice, member(2, "bob"), "+1 great point"), now.Add(time.Second)))

	bobStats, err := db.GetStats(testChat, 2)
	require.NoError(t, err)
	assert.Zero(t, bobStats.Karma)
}

func TestReduceDoublePlusWithinWindow(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	alice := member(1, "alice")
	bob := member(2, "bob")

	require.NoError(t, Reduce(replyEvent(alice, bob, "+"), now))
	require.NoError(t, Reduce(replyEvent(alice, bob, "+"), now.Add(10*time.Second)))

	bobStats, err := db.GetStats(testChat, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobStats.Karma)
}

func TestReduceJoinEventOnlyRecordsJoin(t *testing.T) {
	setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mintLink(t, testChat, 1, "tok-a")

	ev := Event{
		ChatID:      testChat,
		NewMembers:  []UserRef{member(50, "newbie")},
		InviteToken: "tok-a",
	}
	require.NoError(t, Reduce(ev, now))

	inviter, err := db.GetStats(testChat, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inviter.InvitesPending)

	joined, err := db.GetStats(testChat, 50)
	require.NoError(t, err)
	assert.Zero(t, joined.Messages)

	user, err := db.GetChatUser(testChat, 50)
	require.NoError(t, err)
	assert.Equal(t, "newbie", user.Username)
}

// Full referral flow: a member joins through an invite link, chats a
// little too early, then crosses both thresholds and the next reduced
// event promotes the referral.
func TestReduceInviteConfirmationFlow(t *testing.T) {
	setupTestDB(t)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	newcomer := member(50, "newbie")
	mintLink(t, testChat, 1, "tok-b")

	join := Event{ChatID: testChat, NewMembers: []UserRef{newcomer}, InviteToken: "tok-b"}
	require.NoError(t, Reduce(join, t0))

	// two messages inside the first day: nothing confirms
	require.NoError(t, Reduce(textEvent(newcomer, "hi all"), t0.Add(time.Hour)))
	require.NoError(t, Reduce(textEvent(newcomer, "glad to be here"), t0.Add(2*time.Hour)))

	inviter, err := db.GetStats(testChat, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inviter.InvitesPending)
	assert.Equal(t, int64(0), inviter.InvitesConfirmed)

	// third message after the dwell time: the piggy-backed sweep
	// promotes the join
	require.NoError(t, Reduce(textEvent(newcomer, "what did I miss"), t0.Add(25*time.Hour)))

	inviter, err = db.GetStats(testChat, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inviter.InvitesPending)
	assert.Equal(t, int64(1), inviter.InvitesConfirmed)

	joins, err := db.PendingJoins(testChat, 10)
	require.NoError(t, err)
	assert.Empty(t, joins)
}

// A chat with no traffic never confirms, even long past the dwell
// time: the sweep only rides on reduced events.
func TestQuietChatStaysPending(t *testing.T) {
	setupTestDB(t)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mintLink(t, testChat, 1, "tok-c")
	require.NoError(t, RecordJoin(testChat, 50, "tok-c", t0))
	sendMessages(t, testChat, 50, 3)

	otherChat := testChat - 1
	require.NoError(t, Reduce(Event{ChatID: otherChat, Actor: &UserRef{ID: 9}, Text: "elsewhere"}, t0.Add(48*time.Hour)))

	inviter, err := db.GetStats(testChat, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inviter.InvitesPending)
	assert.Equal(t, int64(0), inviter.InvitesConfirmed)
}
