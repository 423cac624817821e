// Package enrich turns sets of person ids into full contact profiles with
// bounded concurrency and per-item failure isolation.
package enrich

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/batch"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/internal/provider"
)

// DefaultBatchSize bounds concurrent enrichment calls per batch.
const DefaultBatchSize = 5

// Orchestrator runs batched enrichment against one provider.
type Orchestrator struct {
	enricher  provider.Enricher
	batchSize int
}

// NewOrchestrator creates an orchestrator. A batchSize below 1 falls back
// to DefaultBatchSize.
func NewOrchestrator(enricher provider.Enricher, batchSize int) *Orchestrator {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Orchestrator{enricher: enricher, batchSize: batchSize}
}

// filterIDs drops ids that are empty, the literal "undefined" sentinel the
// UI layer leaks for unset fields, or (for numeric-id providers) not
// parseable as an integer.
func (o *Orchestrator) filterIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == "undefined" {
			continue
		}
		if o.enricher.NumericIDs() {
			if _, err := strconv.Atoi(id); err != nil {
				continue
			}
		}
		valid = append(valid, id)
	}
	return valid
}

// EnrichMany enriches the given ids in sequential batches, all calls within
// a batch concurrent. Only fulfilled, non-nil profiles are returned, in
// batch-then-input order: the output is a filtering map, not 1:1 with the
// input, and callers must not index it by input position.
func (o *Orchestrator) EnrichMany(ctx context.Context, ids []string) []model.EnrichedPerson {
	valid := o.filterIDs(ids)
	if len(valid) == 0 {
		return []model.EnrichedPerson{}
	}

	zap.L().Info("enriching people",
		zap.String("source", string(o.enricher.Source())),
		zap.Int("requested", len(ids)),
		zap.Int("valid", len(valid)),
		zap.Int("batch_size", o.batchSize),
	)

	results := batch.Process(ctx, valid, o.batchSize, func(ctx context.Context, id string) (*model.EnrichedPerson, error) {
		return o.enricher.Enrich(ctx, id)
	})

	enriched := make([]model.EnrichedPerson, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			zap.L().Warn("enrichment failed",
				zap.String("source", string(o.enricher.Source())),
				zap.String("person_id", valid[i]),
				zap.Error(r.Err),
			)
			continue
		}
		if r.Value == nil {
			continue
		}
		enriched = append(enriched, *r.Value)
	}
	return enriched
}
