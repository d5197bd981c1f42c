package leaderboarddomain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint hashes the parts of a board that participants see: order,
// displays, snake holder and prize winners. Two boards with the same
// fingerprint need not be republished.
func Fingerprint(b Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%t;", b.RoundID, b.HasCourseData)
	for _, e := range b.Entries {
		fmt.Fprintf(&sb, "%d:%s:%s:%s:%s:%d;", e.Position, e.ScorecardID, e.PlayerName, e.ScoreDisplay, e.HoleDisplay, e.Totals.Total.HolesPlayed)
	}
	if b.Snake != nil {
		fmt.Fprintf(&sb, "snake:%s:%d;", b.Snake.ScorecardID, b.Snake.Since.UnixNano())
	}
	for _, p := range b.Prizes {
		fmt.Fprintf(&sb, "prize:%d:%s", p.Hole, p.Type)
		if p.Winner != nil {
			fmt.Fprintf(&sb, ":%s:%g", p.Winner.ScorecardID, p.Winner.Distance)
		}
		sb.WriteByte(';')
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}
