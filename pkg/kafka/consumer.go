package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// MessageHandler imports one parsed raw document message.
type MessageHandler func(ctx context.Context, msg *IncomingMessage) error

// FailureHandler receives messages that could not be parsed or imported.
// When it returns nil the message is committed; otherwise it is left for
// redelivery.
type FailureHandler func(ctx context.Context, msg *IncomingMessage, cause error) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// Consumer reads raw provider documents with at-least-once delivery: a
// message is committed only after it was imported or dead-lettered.
type Consumer struct {
	reader    messageReader
	topic     string
	logger    ectologger.Logger
	handler   MessageHandler
	onFailure FailureHandler
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

func NewConsumer(cfg config.Config, logger ectologger.Logger, handler MessageHandler, onFailure FailureHandler) *Consumer {
	return NewConsumerWithConfig(ConsumerConfig{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.KafkaInputTopic,
		ConsumerGroup: cfg.KafkaConsumerGroup,
	}, logger, handler, onFailure)
}

func NewConsumerWithConfig(cfg ConsumerConfig, logger ectologger.Logger, handler MessageHandler, onFailure FailureHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})
	return newConsumer(reader, cfg.Topic, logger, handler, onFailure)
}

func newConsumer(reader messageReader, topic string, logger ectologger.Logger, handler MessageHandler, onFailure FailureHandler) *Consumer {
	return &Consumer{
		reader:    reader,
		topic:     topic,
		logger:    logger,
		handler:   handler,
		onFailure: onFailure,
	}
}

func (c *Consumer) GetName() string {
	return "kafka-consumer"
}

func (c *Consumer) DependsOn() []string {
	return []string{"database"}
}

// Start launches the consume loop. The loop outlives the startup context
// and ends on Stop.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(ctx)
	}()

	c.logger.WithContext(ctx).WithField("topic", c.topic).Info("kafka consumer started")
	return nil
}

func (c *Consumer) Stop(context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consume(ctx context.Context) {
	for ctx.Err() == nil {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				break
			}
			c.logger.WithContext(ctx).WithError(err).Error("failed to fetch message")
			continue
		}
		c.process(ctx, msg)
	}
	c.logger.WithContext(ctx).Info("kafka consumer stopped")
}

// process imports one message and commits it unless it must be redelivered.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	ctx, span := tracing.StartSpan(ctx, "kafka.Consumer.process")
	defer span.End()

	incoming := toIncoming(msg)
	log := c.logger.WithContext(ctx).WithFields(map[string]any{
		"topic":         msg.Topic,
		"partition":     msg.Partition,
		"offset":        msg.Offset,
		"document_type": incoming.DocumentType(),
	})

	err := incoming.Parse()
	if err == nil {
		err = c.handler(ctx, incoming)
	}

	switch {
	case err == nil:
		metrics.KafkaMessagesTotal.WithLabelValues("processed").Inc()
	case c.onFailure == nil:
		tracing.RecordError(span, err)
		metrics.KafkaMessagesTotal.WithLabelValues("failed").Inc()
		log.WithError(err).Error("failed to import message, leaving it for redelivery")
		return
	default:
		tracing.RecordError(span, err)
		if dlqErr := c.onFailure(ctx, incoming, err); dlqErr != nil {
			metrics.KafkaMessagesTotal.WithLabelValues("failed").Inc()
			log.WithError(dlqErr).Error("failed to import message, leaving it for redelivery")
			return
		}
		metrics.KafkaMessagesTotal.WithLabelValues("dead_lettered").Inc()
		log.WithError(err).Warn("message dead-lettered")
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.WithError(err).Error("failed to commit message")
	}
}

func toIncoming(msg kafka.Message) *IncomingMessage {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &IncomingMessage{
		Key:       string(msg.Key),
		Value:     msg.Value,
		Headers:   headers,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Topic:     msg.Topic,
	}
}

// Health reports whether the consumer has a reader to fetch from.
func (c *Consumer) Health() bool {
	return c.reader != nil
}
