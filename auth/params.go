package auth

import (
	"bytes"
	"sort"
	"strings"
)

// span indexes one key=value pair inside Params.buf.
type span struct {
	keyStart, keyEnd, valueEnd int
}

// Params is an owned buffer of raw request parameters plus the index of each
// pair inside it. Pairs are never copied out while sorting.
type Params struct {
	buf   []byte
	spans []span
}

// Add appends a single key and value.
func (p *Params) Add(key, value string) {
	p.sep()
	start := len(p.buf)
	p.buf = append(p.buf, key...)
	keyEnd := len(p.buf)
	p.buf = append(p.buf, '=')
	p.buf = append(p.buf, value...)
	p.spans = append(p.spans, span{keyStart: start, keyEnd: keyEnd, valueEnd: len(p.buf)})
}

// AddRaw appends an "&" joined list of key=value pairs such as a query string.
// The first "=" of a pair separates key from value; pairs without one are
// ignored, and an empty list adds nothing.
func (p *Params) AddRaw(list string) {
	if list == "" {
		return
	}
	p.sep()
	start := len(p.buf)
	p.buf = append(p.buf, list...)
	for start <= len(p.buf) {
		end := bytes.IndexByte(p.buf[start:], '&')
		if end < 0 {
			end = len(p.buf)
		} else {
			end += start
		}
		if eq := bytes.IndexByte(p.buf[start:end], '='); eq >= 0 {
			p.spans = append(p.spans, span{keyStart: start, keyEnd: start + eq, valueEnd: end})
		}
		start = end + 1
	}
}

func (p *Params) sep() {
	if len(p.buf) > 0 {
		p.buf = append(p.buf, '&')
	}
}

// Len returns the number of pairs.
func (p *Params) Len() int { return len(p.spans) }

// Key returns the raw key of pair i.
func (p *Params) Key(i int) string { return string(p.key(i)) }

// Value returns the raw value of pair i.
func (p *Params) Value(i int) string {
	s := p.spans[i]
	return string(p.buf[s.keyEnd+1 : s.valueEnd])
}

func (p *Params) key(i int) []byte {
	s := p.spans[i]
	return p.buf[s.keyStart:s.keyEnd]
}

// Sort orders pairs by the bytes of their raw keys. Pairs with equal keys
// keep insertion order.
func (p *Params) Sort() {
	sort.SliceStable(p.spans, func(i, j int) bool {
		return bytes.Compare(p.key(i), p.key(j)) < 0
	})
}

// CanonicalString joins the percent encoded pairs as k=v with "&", in the
// current order.
func (p *Params) CanonicalString() string {
	var b strings.Builder
	for i := range p.spans {
		if i > 0 {
			b.WriteByte('&')
		}
		writePercentEncoded(&b, p.Key(i))
		b.WriteByte('=')
		writePercentEncoded(&b, p.Value(i))
	}
	return b.String()
}
