package kafka_client

import "time"

const (
	KAFKA_TOPIC_REVIEW_REQUESTS    = "review-requests"    // raw reviews waiting for a prediction
	KAFKA_TOPIC_REVIEW_PREDICTIONS = "review-predictions" // batched prediction results
)

const (
	MAX_RETRIES      = 5
	RETRY_DELAY      = 2 * time.Second
	POLL_TIMEOUT     = time.Second
	TRANSACTIONAL_ID = "cinemood-producer-1"
)
