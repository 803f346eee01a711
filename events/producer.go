package events

import (
	"encoding/json"

	"github.com/IBM/sarama"

	"healthpulse/logger"
)

// Producer publishes LabResultUpdated events. Publishing is best effort: the
// lab upload must succeed even when the broker is down, so callers log and
// continue on error.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewProducer connects a synchronous producer to the brokers.
func NewProducer(brokers []string, topic string, log *logger.Logger) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: producer, topic: topic, log: log}, nil
}

// PublishLabResultUpdated emits the event keyed by user so per-user ordering
// holds within a partition.
func (p *Producer) PublishLabResultUpdated(event LabResultUpdated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return err
	}

	p.log.Debug("lab result event published",
		"user_id", event.UserID, "partition", partition, "offset", offset)
	return nil
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
