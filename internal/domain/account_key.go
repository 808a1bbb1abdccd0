package domain

import "math/rand"

const (
	accountKeyDigits  = "0123456789"
	accountKeyLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	accountKeyPairs   = 3
)

// GenerateAccountKey builds a short account key of alternating digit/letter
// pairs (e.g. "3K7Q0A") drawn from rng.
func GenerateAccountKey(rng *rand.Rand) string {
	b := make([]byte, 0, accountKeyPairs*2)
	for i := 0; i < accountKeyPairs; i++ {
		b = append(b, accountKeyDigits[rng.Intn(len(accountKeyDigits))])
		b = append(b, accountKeyLetters[rng.Intn(len(accountKeyLetters))])
	}
	return string(b)
}
