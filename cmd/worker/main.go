package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/tweelyzer/config"
	"github.com/spacesedan/tweelyzer/internal/analysis"
	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/clients/kafka_client"
	"github.com/spacesedan/tweelyzer/internal/logging"
	"github.com/spacesedan/tweelyzer/internal/worker"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := kafka_client.GetKafkaConfig()

	for {
		err := kafka_client.InitProducer(cfg)
		if err == nil {
			break
		}

		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	defer kafka_client.CloseProducer()

	var dedupe worker.Deduper
	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		dedupe = clients.InitValkey()
		defer clients.CloseValkey()
	}

	consumer := worker.NewAnalysisConsumer(
		analysis.NewAnalyzer(clients.GetHuggingFaceClient()),
		clients.GetTwitterClient(),
		dedupe,
	)

	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_ANALYSIS_REQUESTS, consumer.Start)

	if err := kafka_client.StartConsumer(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
