// Package match scores free-text guesses against a song title or artist.
package match

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Threshold is the fixed acceptance bound for a guess. Not configurable.
const Threshold = 0.70

var sorensenDice = metrics.NewSorensenDice()

// Score returns the character-bigram Sørensen–Dice similarity of the two
// strings in [0,1]. Both sides are lower-cased first. Pure and safe for
// concurrent use.
func Score(reference, candidate string) float64 {
	return strutil.Similarity(
		strings.ToLower(reference),
		strings.ToLower(candidate),
		sorensenDice,
	)
}

// IsMatch reports whether candidate is close enough to reference.
func IsMatch(reference, candidate string) bool {
	return Score(reference, candidate) >= Threshold
}
