// Package httpdriver runs single HTTP/1.0 request/response exchanges over a
// freshly dialed stream connection.
//
// Each exchange connects, writes the request, reads the status line, skips
// the headers, and hands the remaining bytes to the caller. The connection is
// closed before Do returns on every path. There is no chunked transfer,
// redirect handling or connection reuse.
package httpdriver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"goTweetRelay/logging"
)

const (
	statusLineWindow   = 128
	defaultContentType = "application/json"
)

// Request is one outgoing request.
type Request struct {
	Method string
	// Path is the request target, including any query.
	Path          string
	Host          string
	Authorization string
	// Accept is only sent with GET requests.
	Accept      string
	ContentType string
	Body        string
	// SkipToJSON discards any bytes between the headers and the first "{".
	SkipToJSON bool
}

// hasBody reports whether the request carries Content-Type and
// Content-Length headers and a body.
func (r *Request) hasBody() bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// BodyFunc consumes the response body of a transaction. The body is only
// readable until the function returns.
type BodyFunc func(status int, body io.Reader) error

// Driver performs transactions. A Driver holds no connection state between
// calls, but callers should still serialize requests per client.
type Driver struct {
	dialer      Dialer
	port        int
	readTimeout time.Duration
	log         logging.Logger
	debug       logging.Logger
}

// New creates a Driver. A nil dialer dials TLS with the given settings.
func New(d Dialer, s *Settings, log, debug logging.Logger) *Driver {
	if s == nil {
		s = DefaultSettings()
	}
	if d == nil {
		d = NewTLSDialer(s)
	}
	if log == nil {
		log = logging.Discard
	}
	if debug == nil {
		debug = logging.Discard
	}
	port := s.Port
	if port == 0 {
		port = 443
	}
	return &Driver{
		dialer:      d,
		port:        port,
		readTimeout: s.ReadTimeout,
		log:         log,
		debug:       debug,
	}
}

// Do runs one transaction and returns the response status code. A negative
// code is one of the Status sentinels and comes with the matching error. If
// the headers never end, the real status code is returned together with
// ErrInvalidResponse and fn is not called.
func (d *Driver) Do(ctx context.Context, req *Request, fn BodyFunc) (int, error) {
	d.debug.Printf("%s %s%s", req.Method, req.Host, req.Path)
	addr := net.JoinHostPort(req.Host, strconv.Itoa(d.port))
	conn, err := d.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		d.log.Printf("Connection failed: %v", err)
		return StatusConnectFailure, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer conn.Close()

	t := &transaction{
		conn:    conn,
		timeout: d.readTimeout,
		debug:   d.debug,
	}
	if err := t.send(req); err != nil {
		d.log.Printf("Failed to send request: %v", err)
		return StatusSendFailure, fmt.Errorf("%w: %v", ErrSend, err)
	}
	code, err := t.readStatus()
	if err != nil {
		return StatusMalformed, err
	}
	d.debug.Printf("Status Code: %d", code)
	if err := t.skipHeaders(); err != nil {
		d.log.Printf("Invalid response")
		return code, err
	}
	if req.SkipToJSON {
		t.skipToJSON()
	}
	if fn == nil {
		return code, nil
	}
	return code, fn(code, t.r)
}

// Get sends a GET request.
func (d *Driver) Get(ctx context.Context, host, path, authorization, accept string, fn BodyFunc) (int, error) {
	return d.Do(ctx, &Request{
		Method:        http.MethodGet,
		Path:          path,
		Host:          host,
		Authorization: authorization,
		Accept:        accept,
		SkipToJSON:    true,
	}, fn)
}

// Post sends a POST request with a body.
func (d *Driver) Post(ctx context.Context, host, path, authorization, body, contentType string, fn BodyFunc) (int, error) {
	return d.withBody(ctx, http.MethodPost, host, path, authorization, body, contentType, fn)
}

// Put sends a PUT request with a body.
func (d *Driver) Put(ctx context.Context, host, path, authorization, body, contentType string, fn BodyFunc) (int, error) {
	return d.withBody(ctx, http.MethodPut, host, path, authorization, body, contentType, fn)
}

func (d *Driver) withBody(ctx context.Context, method, host, path, authorization, body, contentType string, fn BodyFunc) (int, error) {
	return d.Do(ctx, &Request{
		Method:        method,
		Path:          path,
		Host:          host,
		Authorization: authorization,
		ContentType:   contentType,
		Body:          body,
		SkipToJSON:    true,
	}, fn)
}

// transaction is the state of one exchange on an open connection.
type transaction struct {
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration
	debug   logging.Logger
	// crlf counts how much of "\r\n" ended the status line.
	crlf int
}

func (t *transaction) send(req *Request) error {
	if t.timeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
			return err
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.0\r\n", req.Method, req.Path)
	fmt.Fprintf(&b, "Host: %s\r\n", req.Host)
	if req.hasBody() {
		contentType := req.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}
		fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	}
	if req.Authorization != "" {
		fmt.Fprintf(&b, "Authorization: %s\r\n", req.Authorization)
	}
	if req.Method == http.MethodGet && req.Accept != "" {
		fmt.Fprintf(&b, "Accept: %s\r\n", req.Accept)
	}
	if req.hasBody() {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(req.Body))
	}
	b.WriteString("\r\n")
	if req.hasBody() {
		b.WriteString(req.Body)
	}

	_, err := io.WriteString(t.conn, b.String())
	return err
}

// readStatus reads the status line up to its "\r" and parses the code.
func (t *transaction) readStatus() (int, error) {
	t.r = bufio.NewReader(&deadlineReader{conn: t.conn, timeout: t.timeout})
	line := make([]byte, 0, statusLineWindow)
	for {
		c, err := t.r.ReadByte()
		if err != nil {
			return StatusMalformed, fmt.Errorf("%w: %q: %v", ErrMalformedStatusLine, line, err)
		}
		if c == '\r' {
			t.crlf = 1
			break
		}
		if len(line) == statusLineWindow {
			return StatusMalformed, fmt.Errorf("%w: no end within %d bytes", ErrMalformedStatusLine, statusLineWindow)
		}
		line = append(line, c)
	}
	if next, err := t.r.Peek(1); err == nil && next[0] == '\n' {
		t.r.ReadByte()
		t.crlf = 2
	}
	t.debug.Printf("Status: %s", line)
	return parseStatusLine(string(line))
}

func parseStatusLine(line string) (int, error) {
	tokens := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' })
	if len(tokens) < 2 || (tokens[0] != "HTTP/1.0" && tokens[0] != "HTTP/1.1") {
		return StatusMalformed, fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}
	code, err := strconv.Atoi(tokens[1])
	if err != nil || len(tokens[1]) != 3 || code < 100 {
		return StatusMalformed, fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}
	return code, nil
}

// skipHeaders discards everything up to and including "\r\n\r\n". The CRLF
// ending the status line counts towards the terminator, so a response with
// no headers is accepted.
func (t *transaction) skipHeaders() error {
	const end = "\r\n\r\n"
	matched := t.crlf
	for matched < len(end) {
		c, err := t.r.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		switch {
		case c == end[matched]:
			matched++
		case c == '\r':
			matched = 1
		default:
			matched = 0
		}
	}
	return nil
}

// skipToJSON tosses stray bytes some servers and proxies send between the
// headers and a JSON object.
func (t *transaction) skipToJSON() {
	for {
		next, err := t.r.Peek(1)
		if err != nil || next[0] == '{' {
			return
		}
		c, _ := t.r.ReadByte()
		t.debug.Printf("Tossing an unexpected character: %q", c)
	}
}

// deadlineReader bounds every read by the timeout.
type deadlineReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	if r.timeout > 0 {
		if err := r.conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
			return 0, err
		}
	}
	return r.conn.Read(p)
}
