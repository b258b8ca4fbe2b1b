package auth

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphanumericNoncer(t *testing.T) {
	n := AlphanumericNoncer{}
	a := n.Nonce()
	b := n.Nonce()
	require.Len(t, a, NonceLength)
	assert.NotEqual(t, a, b)
	for i := 0; i < len(a); i++ {
		assert.True(t, isAlphaNumeric(a[i]), "byte %q", a[i])
	}
}

func TestAlphanumericNoncerFiltersSource(t *testing.T) {
	src := bytes.Repeat([]byte("!@# aZ9\xff"), 20)
	n := AlphanumericNoncer{Rand: bytes.NewReader(src)}
	assert.Equal(t, "aZ9aZ9aZ9aZ9aZ9aZ9aZ9aZ9aZ9aZ9aZ", n.Nonce())
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, errors.New("no entropy") }

func TestAlphanumericNoncerFallsBack(t *testing.T) {
	n := AlphanumericNoncer{Rand: errReader{}}
	assert.Len(t, n.Nonce(), NonceLength)
}

// stuckReader never fails and never yields an alphanumeric byte.
type stuckReader struct {
	fill  byte
	reads int
}

func (r *stuckReader) Read(p []byte) (int, error) {
	r.reads++
	if r.fill == 0 {
		return 0, nil
	}
	for i := range p {
		p[i] = r.fill
	}
	return len(p), nil
}

func TestAlphanumericNoncerFallsBackWhenStuck(t *testing.T) {
	for name, src := range map[string]*stuckReader{
		"empty reads": {},
		"no alphanumerics": {fill: '!'},
	} {
		t.Run(name, func(t *testing.T) {
			nonce := AlphanumericNoncer{Rand: src}.Nonce()
			assert.Len(t, nonce, NonceLength)
			assert.Equal(t, maxEmptyReads, src.reads)
		})
	}
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestEpoch(t *testing.T) {
	assert.Equal(t, uint64(testTimestamp), Epoch(fixedClock(time.Unix(testTimestamp, 0))))
	assert.Equal(t, uint64(0), Epoch(fixedClock(time.Time{})))
	assert.Equal(t, uint64(0), Epoch(fixedClock(time.Unix(-5, 0))))
	assert.NotZero(t, Epoch(nil))
}
