package httpdriver

import "errors"

// Sentinel status codes. They are negative so they never collide with a
// status read from the wire.
const (
	StatusMalformed      = -1
	StatusConnectFailure = -2
	StatusSendFailure    = -3
)

var (
	ErrConnect             = errors.New("httpdriver: connection failed")
	ErrSend                = errors.New("httpdriver: failed to send request")
	ErrMalformedStatusLine = errors.New("httpdriver: malformed status line")
	ErrInvalidResponse     = errors.New("httpdriver: invalid response, no end of headers")
)

// Class is the outcome category of a status code returned by Do.
type Class int

const (
	ClassHTTP Class = iota
	ClassConnectFailure
	ClassSendFailure
	ClassMalformed
)

func (c Class) String() string {
	switch c {
	case ClassConnectFailure:
		return "connect failure"
	case ClassSendFailure:
		return "send failure"
	case ClassMalformed:
		return "malformed status line"
	}
	return "http"
}

// Classify maps a status returned by Do to its Class.
func Classify(code int) Class {
	switch code {
	case StatusConnectFailure:
		return ClassConnectFailure
	case StatusSendFailure:
		return ClassSendFailure
	case StatusMalformed:
		return ClassMalformed
	}
	if code < 100 || code > 999 {
		return ClassMalformed
	}
	return ClassHTTP
}

// IsSuccess reports whether code is one of the expected codes. With no
// expected codes, any 2xx is a success.
func IsSuccess(code int, expected ...int) bool {
	if len(expected) == 0 {
		return code >= 200 && code < 300
	}
	for _, e := range expected {
		if code == e {
			return true
		}
	}
	return false
}
