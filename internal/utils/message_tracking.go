package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var messageMap sync.Map

// TrackMessage remembers which Kafka message carried a request so its
// offset can be committed once the result is published.
func TrackMessage(requestID string, msg *kafka.Message) {
	messageMap.Store(requestID, msg)
}

// GetMessageForRequest returns and forgets the tracked message.
func GetMessageForRequest(requestID string) (*kafka.Message, bool) {
	msg, ok := messageMap.Load(requestID)
	if !ok {
		return nil, false
	}
	messageMap.Delete(requestID)
	return msg.(*kafka.Message), true
}
