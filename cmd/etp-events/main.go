// Command etp-events tails the workflow event queue and prints every
// mirrored stage-log entry. Requires AMQP_URL to be set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"etp/internal/amqp"
	"etp/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for etp-events")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Tailing workflow events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.ConsumeWorkflowEvents(ctx, func(msg *amqp.WorkflowEventMessage) error {
		fmt.Printf("[%s] %-10s %s\n", msg.Timestamp.Format("15:04:05"), msg.Status, msg.Message)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
