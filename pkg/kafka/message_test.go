package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/raw"
)

func TestToIncoming_ParsesHeadersAndDocument(t *testing.T) {
	msg := kafka.Message{
		Topic:     "raw-travel-documents",
		Partition: 2,
		Offset:    41,
		Key:       []byte("P-100"),
		Value:     []byte(`{"Profile":{"profile_id":"P-100"}}`),
		Time:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Headers: []kafka.Header{
			{Key: HeaderDocumentType, Value: []byte(" Profile ")},
			{Key: HeaderSource, Value: []byte("sabre")},
			{Key: HeaderOrganizationID, Value: []byte("ORG-7")},
		},
	}

	incoming := toIncoming(msg)
	require.NoError(t, incoming.Parse())

	assert.Equal(t, DocumentTypeProfile, incoming.DocumentType())
	assert.Equal(t, "sabre", incoming.Source())
	assert.Equal(t, "ORG-7", incoming.OrganizationID())
	assert.Equal(t, int64(41), incoming.Offset)
	assert.Equal(t, raw.KindText, incoming.Document.Kind)
	assert.Contains(t, incoming.Document.Root, "Profile")
}

func TestParse_RejectsGarbage(t *testing.T) {
	incoming := &IncomingMessage{Value: []byte("not json")}
	err := incoming.Parse()
	assert.ErrorIs(t, err, raw.ErrUnsupportedDocument)
	assert.Nil(t, incoming.Document)
}

func TestCompressionCodec(t *testing.T) {
	assert.Equal(t, kafka.Gzip, compressionCodec("gzip"))
	assert.Equal(t, kafka.Compression(0), compressionCodec("none"))
	assert.Equal(t, kafka.Snappy, compressionCodec(""))
}
