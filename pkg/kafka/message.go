package kafka

import (
	"strings"
	"time"

	"github.com/Ramsey-B/fern/pkg/raw"
)

// Header names carried by raw document messages.
const (
	HeaderDocumentType   = "document_type"
	HeaderSource         = "source"
	HeaderOrganizationID = "organization_id"
	HeaderEventType      = "event_type"
	HeaderSchemaVersion  = "schema_version"
)

const (
	DocumentTypeReservation = "reservation"
	DocumentTypeProfile     = "profile"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Document *raw.Document
}

// Parse classifies the message value into a raw document.
func (m *IncomingMessage) Parse() error {
	doc, err := raw.Classify(m.Value)
	if err != nil {
		return err
	}
	m.Document = &doc
	return nil
}

// DocumentType returns the lower-cased document_type header.
func (m *IncomingMessage) DocumentType() string {
	return strings.ToLower(strings.TrimSpace(m.Headers[HeaderDocumentType]))
}

func (m *IncomingMessage) Source() string {
	return strings.TrimSpace(m.Headers[HeaderSource])
}

func (m *IncomingMessage) OrganizationID() string {
	return strings.TrimSpace(m.Headers[HeaderOrganizationID])
}
