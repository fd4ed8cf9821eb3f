package importer

import (
	"context"
	stderrors "errors"
	"fmt"

	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/redis"
)

var ErrUnknownDocumentType = stderrors.New("unknown document type")

// DeadLetterWriter stores documents that could not be imported.
type DeadLetterWriter interface {
	Add(ctx context.Context, entry *redis.DLQEntry) (string, error)
}

// HandleMessage imports one raw document delivered over Kafka. The
// document_type header selects the import path; the source and
// organization_id headers override the configured defaults.
func (i *Importer) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	if msg.Document == nil {
		if err := msg.Parse(); err != nil {
			return err
		}
	}
	ctx = messageContext(ctx, msg)

	var err error
	switch msg.DocumentType() {
	case kafka.DocumentTypeProfile:
		_, err = i.ImportProfile(ctx, *msg.Document)
	case kafka.DocumentTypeReservation:
		_, err = i.ImportReservation(ctx, *msg.Document)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDocumentType, msg.DocumentType())
	}
	return err
}

// DeadLetter returns a failure handler that parks failed messages in dlq.
// Infrastructure failures are not dead-lettered so the message is
// redelivered once the dependency recovers.
func DeadLetter(dlq DeadLetterWriter) kafka.FailureHandler {
	return func(ctx context.Context, msg *kafka.IncomingMessage, cause error) error {
		reason := FailureReason(cause)
		if reason == ReasonImportFailed {
			return cause
		}

		_, err := dlq.Add(messageContext(ctx, msg), &redis.DLQEntry{
			OrganizationID: msg.OrganizationID(),
			Source:         msg.Source(),
			DocumentType:   msg.DocumentType(),
			Reason:         reason,
			ErrorMessage:   cause.Error(),
			Payload:        string(msg.Value),
			Topic:          msg.Topic,
			Partition:      msg.Partition,
			Offset:         msg.Offset,
		})
		return err
	}
}

const (
	ReasonUnsupportedDocument = "unsupported_document"
	ReasonUnknownDocumentType = "unknown_document_type"
	ReasonNoReservationRoot   = "no_reservation_root"
	ReasonNoProfileRoot       = "no_profile_root"
	ReasonNoUsableIdentity    = "no_usable_identity"
	ReasonImportFailed        = "import_failed"
)

// FailureReason names why a document failed. Only ReasonImportFailed is
// worth retrying.
func FailureReason(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrUnsupportedDocument):
		return ReasonUnsupportedDocument
	case stderrors.Is(err, ErrUnknownDocumentType):
		return ReasonUnknownDocumentType
	case stderrors.Is(err, errors.ErrNoReservationRoot):
		return ReasonNoReservationRoot
	case stderrors.Is(err, errors.ErrNoProfileRoot):
		return ReasonNoProfileRoot
	case stderrors.Is(err, errors.ErrNoUsableIdentity):
		return ReasonNoUsableIdentity
	}
	return ReasonImportFailed
}

func messageContext(ctx context.Context, msg *kafka.IncomingMessage) context.Context {
	if source := msg.Source(); source != "" {
		ctx = fernctx.SetSource(ctx, source)
	}
	if org := msg.OrganizationID(); org != "" {
		ctx = fernctx.SetOrganizationID(ctx, org)
	}
	if fernctx.GetRequestID(ctx) == "" && msg.Key != "" {
		ctx = fernctx.SetRequestID(ctx, msg.Key)
	}
	return ctx
}
