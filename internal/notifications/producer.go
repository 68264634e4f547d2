package notifications

import (
	"context"
	"fmt"
	"time"

	"carzy/internal/shared/config"

	"github.com/IBM/sarama"
)

// Producer interface defines the contract for publishing booking events
// and SMS dispatch requests. Publish failures must never fail the booking
// request that triggered them; callers log and continue.
type Producer interface {
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error
	PublishSMS(ctx context.Context, msg *SMSMessage) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka producer
type KafkaProducerConfig struct {
	Brokers      []string
	BookingTopic string
	SMSTopic     string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
	Compression  sarama.CompressionCodec
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig(cfg config.KafkaConfig) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:      cfg.Brokers,
		BookingTopic: cfg.BookingTopic,
		SMSTopic:     cfg.SMSTopic,
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll,
		Compression:  sarama.CompressionSnappy,
	}
}

// kafkaProducer publishes to Kafka with a sync producer
type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaProducer creates a new Kafka producer for booking notifications
func NewKafkaProducer(config *KafkaProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.Compression
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps per-booking ordering
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishBookingEvent publishes a single booking lifecycle event
func (p *kafkaProducer) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.BookingTopic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish booking event %s: %w", event.ID, err)
	}
	return nil
}

// PublishSMS publishes an SMS dispatch request
func (p *kafkaProducer) PublishSMS(ctx context.Context, msg *SMSMessage) error {
	messageBytes, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal sms message: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.SMSTopic,
		Key:       sarama.StringEncoder(msg.MobileNumber),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: msg.CreatedAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish sms message %s: %w", msg.ID, err)
	}
	return nil
}

// HealthCheck verifies the producer is usable
func (p *kafkaProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}
	return nil
}

// Close shuts down the producer
func (p *kafkaProducer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopProducer drops all messages; used when Kafka is disabled by config.
type NopProducer struct{}

func (NopProducer) PublishBookingEvent(ctx context.Context, event *BookingEvent) error { return nil }
func (NopProducer) PublishSMS(ctx context.Context, msg *SMSMessage) error              { return nil }
func (NopProducer) HealthCheck(ctx context.Context) error                              { return nil }
func (NopProducer) Close() error                                                       { return nil }
