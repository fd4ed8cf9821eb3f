package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	// DefaultDLQStream is the default dead letter queue stream name
	DefaultDLQStream = "fern:dlq"

	// DLQMaxLen is the maximum length of the DLQ stream (oldest entries trimmed)
	DLQMaxLen = 10000
)

// DeadLetterQueue keeps raw documents whose import failed so they can be
// inspected and replayed.
type DeadLetterQueue struct {
	client     *Client
	streamName string
	logger     ectologger.Logger
}

// NewDeadLetterQueue creates a new dead letter queue handler
func NewDeadLetterQueue(client *Client, streamName string, logger ectologger.Logger) *DeadLetterQueue {
	if streamName == "" {
		streamName = DefaultDLQStream
	}
	return &DeadLetterQueue{
		client:     client,
		streamName: streamName,
		logger:     logger,
	}
}

// DLQEntry represents a dead letter queue entry
type DLQEntry struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Source         string    `json:"source,omitempty"`
	DocumentType   string    `json:"document_type"`
	Reason         string    `json:"reason"`
	ErrorMessage   string    `json:"error_message"`
	Payload        string    `json:"payload"`
	Topic          string    `json:"topic,omitempty"`
	Partition      int       `json:"partition"`
	Offset         int64     `json:"offset"`
	CreatedAt      time.Time `json:"created_at"`
	TraceID        string    `json:"trace_id,omitempty"`
}

// Add appends a failed document to the stream
func (d *DeadLetterQueue) Add(ctx context.Context, entry *DLQEntry) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "redis.DeadLetterQueue.Add")
	defer span.End()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.TraceID = tracing.GetTraceID(ctx)

	values, err := encodeEntry(entry)
	if err != nil {
		return "", err
	}

	messageID, err := d.client.Redis().XAdd(ctx, &redis.XAddArgs{
		Stream: d.streamName,
		MaxLen: DLQMaxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		tracing.RecordError(span, err)
		d.logger.WithContext(ctx).WithError(err).Error("Failed to add document to DLQ")
		return "", fmt.Errorf("failed to add to DLQ: %w", err)
	}

	metrics.DLQDocumentsTotal.WithLabelValues(entry.Reason).Inc()
	d.logger.WithContext(ctx).Infof("Added document to DLQ: id=%s type=%s reason=%s", entry.ID, entry.DocumentType, entry.Reason)
	return messageID, nil
}

// List returns the newest entries from the dead letter queue
func (d *DeadLetterQueue) List(ctx context.Context, count int64) ([]DLQEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "redis.DeadLetterQueue.List")
	defer span.End()

	if count <= 0 {
		count = 100
	}

	messages, err := d.client.Redis().XRevRangeN(ctx, d.streamName, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read DLQ: %w", err)
	}

	entries := make([]DLQEntry, 0, len(messages))
	for _, msg := range messages {
		entry, err := decodeEntry(msg.Values)
		if err != nil {
			d.logger.WithContext(ctx).WithError(err).Warnf("skipping DLQ entry %s", msg.ID)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Len returns the number of entries in the stream
func (d *DeadLetterQueue) Len(ctx context.Context) (int64, error) {
	return d.client.Redis().XLen(ctx, d.streamName).Result()
}

// encodeEntry flattens an entry into stream fields. The full entry rides in
// "data"; the rest are copies for XRANGE filtering from redis-cli.
func encodeEntry(entry *DLQEntry) (map[string]any, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal DLQ entry: %w", err)
	}
	return map[string]any{
		"data":            string(data),
		"organization_id": entry.OrganizationID,
		"document_type":   entry.DocumentType,
		"reason":          entry.Reason,
	}, nil
}

func decodeEntry(values map[string]any) (DLQEntry, error) {
	data, ok := values["data"].(string)
	if !ok {
		return DLQEntry{}, fmt.Errorf("DLQ entry has no data field")
	}
	var entry DLQEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return DLQEntry{}, fmt.Errorf("malformed DLQ entry: %w", err)
	}
	return entry, nil
}
