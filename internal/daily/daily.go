// internal/daily/daily.go
//
// Daily secret selection.
// Every player of a given locale and length gets the same secret on the same
// UTC date: the index is HMAC-SHA256(salt, "YYYY-MM-DD") modulo the corpus
// size, so it cannot be predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/cthoyt/pyrdle/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index in [0, n) for the date.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Secret returns the corpus word for the date and its index.
func Secret(corpus *words.Corpus, date time.Time, salt string) (string, int) {
	i := WordIndex(date, salt, corpus.Len())
	return corpus.Words()[i], i
}
