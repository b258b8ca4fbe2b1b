package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// apiError covers both the v2 problem format and the v1.1 errors array.
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// parseError reads an error body for diagnostics. It never fails; a body it
// cannot read is reported as such.
func (c *Client) parseError(status int, body io.Reader) *StatusError {
	se := &StatusError{Code: status}
	var e apiError
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		c.log.Printf("Could not parse error body for status %d: %v", status, err)
		return se
	}
	var parts []string
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	for _, m := range e.Errors {
		parts = append(parts, fmt.Sprintf("%d %s", m.Code, m.Message))
	}
	se.Detail = strings.Join(parts, ": ")
	c.log.Printf("API error %d: %s", status, se.Detail)
	return se
}
