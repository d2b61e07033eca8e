package api

// telegramAPIBase is a variable so tests can point the client at a
// local stub.
var telegramAPIBase = "https://api.telegram.org"

const (
	memberStatusLeft   = "left"
	memberStatusKicked = "kicked"

	digestConfigHint = "To configure the daily digest, an admin can send:\n" +
		"• `digest time HH:MM` (24-hr local time)\n" +
		"• `timezone Asia/Kolkata`"
)
