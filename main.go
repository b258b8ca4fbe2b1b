package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"goTweetRelay/config"
	"goTweetRelay/httpdriver"
	"goTweetRelay/logging"
	"goTweetRelay/relay"
	"goTweetRelay/sqssrv"
	"goTweetRelay/twitter"
)

// main relays tweet and search requests from INPUT_QUEUE to the Twitter API
// and their results to OUTPUT_QUEUE. See config.Load for the environment.
func main() {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New()
	debug := logging.Debug(logger, cfg.Debug)

	settings := httpdriver.DefaultSettings()
	settings.Port = cfg.Port
	settings.ReadTimeout = cfg.ReadTimeout
	driver := httpdriver.New(nil, settings, logger, debug)

	client := twitter.New(driver,
		twitter.WithCredentials(cfg.Credentials()),
		twitter.WithBearerToken(cfg.BearerToken),
		twitter.WithHost(cfg.Host),
		twitter.WithLogger(logger, debug),
	)

	queue, err := sqssrv.GetSrv(cfg.Region)
	if err != nil {
		log.Fatalf("Failed to create sqs session: %v", err)
	}

	h := &relay.Handler{
		Twitter:     client,
		Queue:       queue,
		InputQueue:  cfg.InputQueue,
		OutputQueue: cfg.OutputQueue,
		Retries:     cfg.Retries,
		Log:         logger,
	}
	lambda.Start(h.Handle)
}
