package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/redis"
)

type recordingDLQ struct {
	entries []*redis.DLQEntry
}

func (d *recordingDLQ) Add(_ context.Context, entry *redis.DLQEntry) (string, error) {
	d.entries = append(d.entries, entry)
	return "1-0", nil
}

func message(docType, value string) *kafka.IncomingMessage {
	return &kafka.IncomingMessage{
		Key:   "k-1",
		Value: []byte(value),
		Headers: map[string]string{
			kafka.HeaderDocumentType:   docType,
			kafka.HeaderSource:         "amadeus",
			kafka.HeaderOrganizationID: "org-5",
		},
		Topic:  "raw-travel-documents",
		Offset: 42,
	}
}

func TestHandleMessage_Profile(t *testing.T) {
	h := newHarness()

	err := h.importer.HandleMessage(context.Background(), message(" Profile ", `{"Profile": {"profile_id": "p-1", "first_name": "Ana"}}`))
	require.NoError(t, err)

	require.Len(t, h.store.travelers, 1)
	for _, traveler := range h.store.travelers {
		assert.Equal(t, "amadeus", traveler.Source)
		assert.Equal(t, "org-5", traveler.OrganizationID)
	}
}

func TestHandleMessage_Reservation(t *testing.T) {
	h := newHarness()

	err := h.importer.HandleMessage(context.Background(), message("reservation", `{"Reservation": {"BookingDetails": {"RecordLocator": "XYZ789"}}}`))
	require.NoError(t, err)
	require.Len(t, h.emitter.reservations, 1)
	assert.Equal(t, "XYZ789", h.emitter.reservations[0].RecordLocator)
}

func TestHandleMessage_Failures(t *testing.T) {
	h := newHarness()

	err := h.importer.HandleMessage(context.Background(), message("invoice", `{"a": 1}`))
	assert.ErrorIs(t, err, ErrUnknownDocumentType)

	err = h.importer.HandleMessage(context.Background(), message("profile", `not json`))
	assert.ErrorIs(t, err, errors.ErrUnsupportedDocument)
}

func TestDeadLetter(t *testing.T) {
	dlq := &recordingDLQ{}
	onFailure := DeadLetter(dlq)

	msg := message("profile", `{"nothing": "here"}`)
	require.NoError(t, onFailure(context.Background(), msg, errors.ErrNoProfileRoot))

	require.Len(t, dlq.entries, 1)
	entry := dlq.entries[0]
	assert.Equal(t, ReasonNoProfileRoot, entry.Reason)
	assert.Equal(t, "org-5", entry.OrganizationID)
	assert.Equal(t, `{"nothing": "here"}`, entry.Payload)
	assert.Equal(t, int64(42), entry.Offset)
}

func TestDeadLetter_RetriesInfrastructureFailures(t *testing.T) {
	dlq := &recordingDLQ{}
	cause := fmt.Errorf("connection refused")

	err := DeadLetter(dlq)(context.Background(), message("profile", `{}`), cause)
	assert.Equal(t, cause, err)
	assert.Empty(t, dlq.entries)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, ReasonNoUsableIdentity, FailureReason(fmt.Errorf("wrapped: %w", errors.ErrNoUsableIdentity)))
	assert.Equal(t, ReasonNoReservationRoot, FailureReason(errors.ErrNoReservationRoot))
	assert.Equal(t, ReasonUnknownDocumentType, FailureReason(ErrUnknownDocumentType))
	assert.Equal(t, ReasonImportFailed, FailureReason(assert.AnError))
}
