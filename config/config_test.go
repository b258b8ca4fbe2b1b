package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func required() map[string]string {
	return map[string]string{
		"TWITTER_CONSUMER_KEY":    "ck",
		"TWITTER_CONSUMER_SECRET": "cs",
		"TWITTER_ACCESS_TOKEN":    "at",
		"TWITTER_ACCESS_SECRET":   "as",
		"INPUT_QUEUE":             "https://sqs.us-east-1.amazonaws.com/1/in",
		"OUTPUT_QUEUE":            "https://sqs.us-east-1.amazonaws.com/1/out",
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(env(required()))
	require.NoError(t, err)
	assert.Equal(t, "api.twitter.com", c.Host)
	assert.Equal(t, 443, c.Port)
	assert.Equal(t, 3, c.Retries)
	assert.Equal(t, 2*time.Second, c.ReadTimeout)
	assert.Equal(t, "us-east-1", c.Region)
	assert.False(t, c.Debug)
	assert.Equal(t, "cs&as", c.Credentials().SigningKey())
}

func TestLoadOverrides(t *testing.T) {
	m := required()
	m["TWITTER_RETRIES"] = "5"
	m["TWITTER_TIMEOUT"] = "500ms"
	m["TWITTER_DEBUG"] = "true"
	m["TWITTER_HOST"] = "localhost"
	m["TWITTER_PORT"] = "8443"
	m["TWITTER_BEARER_TOKEN"] = "AAAA"
	c, err := Load(env(m))
	require.NoError(t, err)
	assert.Equal(t, 5, c.Retries)
	assert.Equal(t, 500*time.Millisecond, c.ReadTimeout)
	assert.True(t, c.Debug)
	assert.Equal(t, "localhost", c.Host)
	assert.Equal(t, 8443, c.Port)
	assert.Equal(t, "AAAA", c.BearerToken)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"retries", "TWITTER_RETRIES", "many"},
		{"timeout", "TWITTER_TIMEOUT", "soon"},
		{"debug", "TWITTER_DEBUG", "maybe"},
		{"port", "TWITTER_PORT", "https"},
		{"consumer key", "TWITTER_CONSUMER_KEY", ""},
		{"output queue", "OUTPUT_QUEUE", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := required()
			m[tt.key] = tt.val
			_, err := Load(env(m))
			assert.Error(t, err)
		})
	}
}
