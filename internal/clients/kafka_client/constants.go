package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUESTS = "analysis-requests" // tweet URLs queued for analysis
	KAFKA_TOPIC_ANALYSIS_RESULTS  = "analysis-results"  // batched combined analysis records
)

const (
	BATCH_SIZE    = 10
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
	POLL_INTERVAL = 1 * time.Second
)
