package discord

import "riseup/internal/domain/entities"

var signalEmoji = map[entities.Signal]string{
	entities.SignalAvailable:   "✅",
	entities.SignalLate:        "🕘",
	entities.SignalUnavailable: "❌",
}

// emojiFor returns the reaction emoji of a declaration signal.
func emojiFor(sig entities.Signal) string {
	return signalEmoji[sig]
}

// signalForEmoji maps a reaction emoji back to its declaration signal.
func signalForEmoji(name string) (entities.Signal, bool) {
	for sig, e := range signalEmoji {
		if e == name {
			return sig, true
		}
	}
	return "", false
}
