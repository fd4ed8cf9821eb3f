package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/raw"
)

// BatchSummary totals a batch import. A document that fails outright is
// counted in Failed and described in Errors; family failures inside an
// otherwise imported document are counted in Partial.
type BatchSummary struct {
	TotalProcessed int                  `json:"total_processed"`
	Created        int                  `json:"created"`
	Updated        int                  `json:"updated"`
	Partial        int                  `json:"partial"`
	Failed         int                  `json:"failed"`
	Errors         []*errors.BatchError `json:"errors"`
}

func (s *BatchSummary) fail(index int, sourceID string, err error) {
	s.Failed++
	s.Errors = append(s.Errors, errors.NewBatchError(index, sourceID, err))
}

// ImportProfiles imports payloads with at most Options.Concurrency in
// flight. Each payload is classified on its own, so one malformed or
// failing document never stops the others.
func (i *Importer) ImportProfiles(ctx context.Context, payloads []any) BatchSummary {
	summary := BatchSummary{Errors: []*errors.BatchError{}}
	var mu sync.Mutex

	i.run(ctx, len(payloads), func(ctx context.Context, index int) {
		outcome, err := classifyThen(ctx, payloads[index], i.ImportProfile)

		mu.Lock()
		defer mu.Unlock()
		summary.TotalProcessed++
		switch {
		case err != nil:
			summary.fail(index, "", err)
		case outcome.Created:
			summary.Created++
		default:
			summary.Updated++
		}
		if err == nil && !outcome.Result.OK() {
			summary.Partial++
		}
	}, func(index int, err error) {
		mu.Lock()
		defer mu.Unlock()
		summary.TotalProcessed++
		summary.fail(index, "", err)
	})

	sortErrors(summary.Errors)
	i.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":      KindProfile,
		"processed": summary.TotalProcessed,
		"created":   summary.Created,
		"updated":   summary.Updated,
		"partial":   summary.Partial,
		"failed":    summary.Failed,
	}).Info("profile batch complete")
	return summary
}

// ImportReservations imports payloads with at most Options.Concurrency in
// flight. Reservations never create travelers, so successful documents
// count as Updated.
func (i *Importer) ImportReservations(ctx context.Context, payloads []any) BatchSummary {
	summary := BatchSummary{Errors: []*errors.BatchError{}}
	var mu sync.Mutex

	i.run(ctx, len(payloads), func(ctx context.Context, index int) {
		outcome, err := classifyThen(ctx, payloads[index], i.ImportReservation)

		mu.Lock()
		defer mu.Unlock()
		summary.TotalProcessed++
		if err != nil {
			summary.fail(index, "", err)
			return
		}
		summary.Updated++
		if outcome.Partial() {
			summary.Partial++
		}
	}, func(index int, err error) {
		mu.Lock()
		defer mu.Unlock()
		summary.TotalProcessed++
		summary.fail(index, "", err)
	})

	sortErrors(summary.Errors)
	i.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":      KindReservation,
		"processed": summary.TotalProcessed,
		"updated":   summary.Updated,
		"partial":   summary.Partial,
		"failed":    summary.Failed,
	}).Info("reservation batch complete")
	return summary
}

// run calls work for every index in [0, n) on a bounded group. A panic in
// work is recovered and reported through onPanic.
func (i *Importer) run(ctx context.Context, n int, work func(ctx context.Context, index int), onPanic func(index int, err error)) {
	g := errgroup.Group{}
	g.SetLimit(i.opts.Concurrency)

	for index := 0; index < n; index++ {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					i.logger.WithContext(ctx).WithField("index", index).Errorf("panic importing document: %v", r)
					onPanic(index, fmt.Errorf("panic importing document: %v", r))
				}
			}()
			work(ctx, index)
			return nil
		})
	}
	_ = g.Wait()
}

func classifyThen[T any](ctx context.Context, payload any, importFn func(context.Context, raw.Document) (*T, error)) (*T, error) {
	doc, err := raw.Classify(payload)
	if err != nil {
		return nil, err
	}
	return importFn(ctx, doc)
}

func sortErrors(errs []*errors.BatchError) {
	sort.Slice(errs, func(a, b int) bool { return errs[a].Index < errs[b].Index })
}
