package auth

import (
	"crypto/rand"
	"io"
	"strconv"
	"time"
)

// NonceLength is the length of every generated nonce.
const NonceLength = 32

// maxEmptyReads is how many reads in a row may yield no alphanumeric byte
// before Nonce gives up on Rand and uses crypto/rand.
const maxEmptyReads = 3

// Noncer provides random nonce strings.
type Noncer interface {
	Nonce() string
}

// AlphanumericNoncer draws bytes from Rand and keeps only [A-Za-z0-9] until
// NonceLength characters are collected. Rand defaults to crypto/rand.
type AlphanumericNoncer struct {
	Rand io.Reader
}

// Nonce provides a random nonce string.
func (n AlphanumericNoncer) Nonce() string {
	r := n.Rand
	if r == nil {
		r = rand.Reader
	}
	nonce := make([]byte, 0, NonceLength)
	chunk := make([]byte, 64)
	empty := 0
	for len(nonce) < NonceLength {
		before := len(nonce)
		m, err := r.Read(chunk)
		for _, c := range chunk[:m] {
			if isAlphaNumeric(c) && len(nonce) < NonceLength {
				nonce = append(nonce, c)
			}
		}
		if len(nonce) == before {
			empty++
		} else {
			empty = 0
		}
		if err != nil || empty >= maxEmptyReads {
			r = rand.Reader
			empty = 0
		}
	}
	return string(nonce)
}

func isAlphaNumeric(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9'
}

// Clock provides the current time. It must be synchronised before signing;
// a zero time means it is not.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Epoch returns the Unix epoch seconds of the clock, or 0 when the time is
// unavailable. A 0 timestamp is still signed and left for the server to
// reject.
func Epoch(c Clock) uint64 {
	if c == nil {
		c = SystemClock{}
	}
	now := c.Now()
	if now.IsZero() || now.Unix() <= 0 {
		return 0
	}
	return uint64(now.Unix())
}

func formatEpoch(t uint64) string {
	return strconv.FormatUint(t, 10)
}
