package leads

import (
	"context"
	"errors"

	customerrors "lead-router/errors"
	"lead-router/models"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent submissions in SubmitBatch.
const DefaultWorkers = 4

// Outcome is the result of one batch entry. Err holds a validation failure
// for that entry only.
type Outcome struct {
	Index    int
	Lead     models.Lead
	Decision models.AssignmentDecision
	Err      error
}

// SubmitBatch submits subs with at most workers in flight. Outcomes are
// returned in input order. Invalid entries are reported in their Outcome;
// any other failure stops the batch and is returned.
//
// Entries run concurrently, so rotation order across a batch follows
// completion order rather than input order.
func (s *Service) SubmitBatch(ctx context.Context, subs []models.Submission, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	out := make([]Outcome, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sub := range subs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lead, decision, err := s.Submit(gctx, sub)
			out[i] = Outcome{Index: i, Lead: lead, Decision: decision, Err: err}

			var ve *customerrors.ValidationError
			if err != nil && !errors.As(err, &ve) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
