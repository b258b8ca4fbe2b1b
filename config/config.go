package config

import (
	"fmt"
	"strconv"
	"time"

	"goTweetRelay/auth"
)

// Config holds the relay settings read from the environment.
type Config struct {
	//A value used by the Consumer to identify itself to the Service Provider.
	ConsumerKey string
	//A secret used by the Consumer to establish ownership of the Consumer Key.
	ConsumerSecret string
	//A value used by the Consumer to gain access to the Protected Resources on
	//behalf of the User, instead of using the User's Service Provider credentials.
	AccessToken string
	//A secret used by the Consumer to establish ownership of a given Token.
	AccessSecret string
	//App-only token for read-only calls such as search.
	BearerToken string
	Host        string
	Port        int
	ReadTimeout time.Duration
	Retries     int
	Debug       bool
	Region      string
	InputQueue  string
	OutputQueue string
}

// Load reads the config with getenv, usually os.Getenv.
// Required Enviroment variables:
// TWITTER_CONSUMER_KEY, TWITTER_CONSUMER_SECRET - app consumer key pair.
// TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET - user access token pair.
// INPUT_QUEUE - SQS url to pull input payloads.
// OUTPUT_QUEUE - SQS url for successful payloads.
// Optional:
// TWITTER_BEARER_TOKEN - needed for searches.
// TWITTER_HOST, TWITTER_PORT - defaults api.twitter.com:443.
// TWITTER_TIMEOUT - per read timeout, a time.Duration, default 2s.
// TWITTER_RETRIES - number of trys before fail, default 3.
// TWITTER_DEBUG - log requests including secrets.
// AWS_REGION - default us-east-1.
func Load(getenv func(string) string) (*Config, error) {
	c := &Config{
		ConsumerKey:    getenv("TWITTER_CONSUMER_KEY"),
		ConsumerSecret: getenv("TWITTER_CONSUMER_SECRET"),
		AccessToken:    getenv("TWITTER_ACCESS_TOKEN"),
		AccessSecret:   getenv("TWITTER_ACCESS_SECRET"),
		BearerToken:    getenv("TWITTER_BEARER_TOKEN"),
		Host:           orDefault(getenv("TWITTER_HOST"), "api.twitter.com"),
		Region:         orDefault(getenv("AWS_REGION"), "us-east-1"),
		InputQueue:     getenv("INPUT_QUEUE"),
		OutputQueue:    getenv("OUTPUT_QUEUE"),
	}
	var err error
	if c.Port, err = atoi(getenv, "TWITTER_PORT", 443); err != nil {
		return nil, err
	}
	if c.Retries, err = atoi(getenv, "TWITTER_RETRIES", 3); err != nil {
		return nil, err
	}
	if c.ReadTimeout, err = duration(getenv, "TWITTER_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if v := getenv("TWITTER_DEBUG"); v != "" {
		if c.Debug, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("config: TWITTER_DEBUG: %w", err)
		}
	}
	if c.ConsumerKey == "" || c.AccessToken == "" {
		return nil, fmt.Errorf("config: TWITTER_CONSUMER_KEY and TWITTER_ACCESS_TOKEN are required")
	}
	if c.InputQueue == "" || c.OutputQueue == "" {
		return nil, fmt.Errorf("config: INPUT_QUEUE and OUTPUT_QUEUE are required")
	}
	return c, nil
}

// Credentials returns the OAuth 1.0a credentials with their signing key.
func (c *Config) Credentials() auth.Credentials {
	return auth.NewCredentials(c.ConsumerKey, c.ConsumerSecret, c.AccessToken, c.AccessSecret)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func atoi(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
