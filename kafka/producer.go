package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"docgate/types"
)

// Producer publishes stored-object notifications to the intake topic.
// Used by the upload tool; production uploads publish the same event shape.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a synchronous producer for the given brokers and topic.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Producer{producer: producer, topic: topic}, nil
}

// PublishObjectCreated sends one notification, keyed by document id.
func (p *Producer) PublishObjectCreated(event types.ObjectCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.DocumentID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// Close releases the producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
