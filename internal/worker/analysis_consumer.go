// Package worker consumes tweet analysis requests from Kafka, runs the
// analysis pipeline, and publishes combined results in batches.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"

	"github.com/spacesedan/tweelyzer/internal/analysis"
	"github.com/spacesedan/tweelyzer/internal/clients"
	"github.com/spacesedan/tweelyzer/internal/clients/kafka_client"
	"github.com/spacesedan/tweelyzer/internal/models"
	"github.com/spacesedan/tweelyzer/internal/utils"
)

// TweetExtractor resolves a tweet URL to its extracted record.
type TweetExtractor interface {
	TweetFromURL(ctx context.Context, url string) (models.Tweet, error)
}

// Deduper tracks request IDs that already produced a published result.
type Deduper interface {
	IsRequestProcessed(ctx context.Context, requestID string) bool
	MarkRequestProcessed(ctx context.Context, requestID string) error
}

type AnalysisConsumer struct {
	analyzer  *analysis.Analyzer
	extractor TweetExtractor
	dedupe    Deduper
	results   *utils.BatchBuffer[models.TweetAnalysis]
	lastFlush time.Time
}

// NewAnalysisConsumer wires the consumer. dedupe may be nil, which
// disables duplicate-request tracking.
func NewAnalysisConsumer(analyzer *analysis.Analyzer, extractor TweetExtractor, dedupe Deduper) *AnalysisConsumer {
	return &AnalysisConsumer{
		analyzer:  analyzer,
		extractor: extractor,
		dedupe:    dedupe,
		results:   utils.NewBatchBuffer[models.TweetAnalysis](),
		lastFlush: time.Now(),
	}
}

// Start consumes analysis requests until ctx is cancelled. Offsets are
// committed only after the matching result batch is published.
func (c *AnalysisConsumer) Start(ctx context.Context, consumer *kafka.Consumer) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[AnalysisConsumer] Consumer shutting down...")
			c.flushResults(ctx, committer)
			return
		default:
			msg, err := iterator.Next()
			if err != nil {
				if errors.Is(err, kafka_client.ErrNoMessage) {
					// idle poll still advances time-based flushes
					c.maybeFlush(ctx, committer)
					continue
				}
				utils.HandleConsumerError(err)
				continue
			}

			c.handleMessage(ctx, msg, committer)
			c.maybeFlush(ctx, committer)
		}
	}
}

// maybeFlush publishes the pending batch when it is full or the flush
// interval has elapsed.
func (c *AnalysisConsumer) maybeFlush(ctx context.Context, committer *kafka_client.KafkaCommitHandler) {
	if c.results.Size() >= kafka_client.BATCH_SIZE {
		c.flushResults(ctx, committer)
		return
	}
	if time.Since(c.lastFlush) < kafka_client.BATCH_TIMEOUT {
		return
	}
	if c.results.HasData() {
		c.flushResults(ctx, committer)
	} else {
		c.lastFlush = time.Now()
	}
}

func (c *AnalysisConsumer) handleMessage(ctx context.Context, msg *kafka.Message, committer *kafka_client.KafkaCommitHandler) {
	request, err := utils.DecodeAnalysisRequest(msg.Value)
	if err != nil {
		c.commitDropped(msg, committer)
		return
	}

	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	if c.dedupe != nil && c.dedupe.IsRequestProcessed(ctx, request.RequestID) {
		slog.Info("[AnalysisConsumer] Skipping already processed request",
			slog.String("request_id", request.RequestID))
		c.commitDropped(msg, committer)
		return
	}

	tweet, err := c.extractor.TweetFromURL(ctx, request.URL)
	if err != nil {
		if errors.Is(err, clients.ErrInvalidTweetURL) || errors.Is(err, clients.ErrTweetNotFound) {
			slog.Warn("[AnalysisConsumer] Dropping request with unusable URL",
				slog.String("request_id", request.RequestID),
				slog.String("url", request.URL),
				slog.String("error", err.Error()))
			c.commitDropped(msg, committer)
			return
		}
		// transient failure, leave uncommitted for redelivery
		slog.Error("[AnalysisConsumer] Tweet extraction failed",
			slog.String("request_id", request.RequestID),
			slog.String("error", err.Error()))
		return
	}

	result := c.analyzer.Run(ctx, tweet.Text)

	utils.TrackMessage(request.RequestID, msg)
	c.results.Add(models.TweetAnalysis{
		RequestID:      request.RequestID,
		Tweet:          tweet,
		AnalysisResult: result,
	})
}

func (c *AnalysisConsumer) flushResults(ctx context.Context, committer *kafka_client.KafkaCommitHandler) {
	c.lastFlush = time.Now()

	batch := c.results.GetAndClear()
	if len(batch) == 0 {
		return
	}

	var err error
	for i := 0; i < 3; i++ {
		err = kafka_client.PublishToKafka(kafka_client.KAFKA_TOPIC_ANALYSIS_RESULTS, batch[0].RequestID, batch)
		if err == nil {
			break
		}
		slog.Warn("[AnalysisConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		// offsets stay uncommitted, the batch will be redelivered
		slog.Error("[AnalysisConsumer] Giving up on batch after publish retries",
			slog.Int("batch_size", len(batch)),
			slog.String("error", err.Error()))
		return
	}

	for _, item := range batch {
		trackedMsg, found := utils.GetMessageForRequest(item.RequestID)
		if found {
			if err := committer.Commit(trackedMsg); err != nil {
				slog.Warn("[AnalysisConsumer] Failed to commit offset",
					slog.String("request_id", item.RequestID),
					slog.String("error", err.Error()))
				continue
			}
		}
		if c.dedupe != nil {
			if err := c.dedupe.MarkRequestProcessed(ctx, item.RequestID); err != nil {
				slog.Warn("[AnalysisConsumer] Failed to mark request processed",
					slog.String("request_id", item.RequestID),
					slog.String("error", err.Error()))
			}
		}
	}
}

func (c *AnalysisConsumer) commitDropped(msg *kafka.Message, committer *kafka_client.KafkaCommitHandler) {
	if err := committer.Commit(msg); err != nil {
		slog.Warn("[AnalysisConsumer] Failed to commit dropped message",
			slog.String("error", err.Error()))
	}
}
