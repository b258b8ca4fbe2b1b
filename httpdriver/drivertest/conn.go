// Package drivertest implements in-memory connections for testing
// transactions without a network.
package drivertest

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// Conn is a net.Conn that reads a canned response and records what is
// written to it.
type Conn struct {
	mu       sync.Mutex
	r        io.Reader
	written  bytes.Buffer
	closed   bool
	WriteErr error
}

var _ net.Conn = (*Conn)(nil)

// NewConn creates a Conn that returns response and then io.EOF.
func NewConn(response string) *Conn {
	return &Conn{r: strings.NewReader(response)}
}

// Read implements net.Conn.
func (c *Conn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

// Write implements net.Conn.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		return 0, c.WriteErr
	}
	return c.written.Write(p)
}

// Close implements net.Conn.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Written returns every byte sent so far.
func (c *Conn) Written() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written.String()
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) LocalAddr() net.Addr                { return addr("local") }
func (c *Conn) RemoteAddr() net.Addr               { return addr("remote") }
func (c *Conn) SetDeadline(t time.Time) error      { return nil }
func (c *Conn) SetReadDeadline(t time.Time) error  { return nil }
func (c *Conn) SetWriteDeadline(t time.Time) error { return nil }

type addr string

func (a addr) Network() string { return "fake" }
func (a addr) String() string  { return string(a) }

// Dialer hands out Conns in order and records the addresses dialed.
type Dialer struct {
	mu    sync.Mutex
	conns []*Conn
	Err   error
	Addrs []string
}

// NewDialer creates a Dialer that returns conns one per dial.
func NewDialer(conns ...*Conn) *Dialer {
	return &Dialer{conns: conns}
}

// DialContext implements httpdriver.Dialer.
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Addrs = append(d.Addrs, address)
	if d.Err != nil {
		return nil, d.Err
	}
	if len(d.conns) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}
