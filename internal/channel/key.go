package channel

import (
	"regexp"
	"strings"
)

// maxKeyLength is the platform limit on channel names.
const maxKeyLength = 80

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// Key derives the deterministic channel name for a (user, repository)
// pair: lowercased, with runs of non-alphanumeric characters collapsed
// to single hyphens, so the same inputs always produce the same
// platform-legal name and creation stays idempotent.
func Key(userID, displayName string) string {
	raw := strings.ToLower(strings.TrimSpace("claude-" + displayName + "-" + userID))
	key := strings.Trim(nonKeyChars.ReplaceAllString(raw, "-"), "-")
	if len(key) > maxKeyLength {
		key = strings.Trim(key[:maxKeyLength], "-")
	}
	return key
}
