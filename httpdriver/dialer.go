package httpdriver

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

// Dialer opens the stream connection of one transaction. *net.Dialer and
// *tls.Dialer satisfy it.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// Settings holds the connection settings of a Driver.
type Settings struct {
	Connect     time.Duration
	ReadTimeout time.Duration
	Port        int
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() *Settings {
	return &Settings{
		Connect:     5 * time.Second,
		ReadTimeout: 2 * time.Second,
		Port:        443,
	}
}

// NewTLSDialer returns a TLS dialer whose timeout covers both the TCP
// connect and the handshake.
func NewTLSDialer(s *Settings) *tls.Dialer {
	if s == nil {
		s = DefaultSettings()
	}
	return &tls.Dialer{
		NetDialer: &net.Dialer{
			Timeout: s.Connect,
		},
		Config: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}
