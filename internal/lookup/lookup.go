// Package lookup implements the bulk name-to-contact pipeline: one result
// per input name, in input order, no matter how many individual lookups
// fail.
package lookup

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/batch"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/internal/provider"
)

// DefaultBatchSize bounds concurrent name lookups per batch.
const DefaultBatchSize = 3

// ErrNoNames is returned before any network activity when the input list is
// empty.
var ErrNoNames = eris.New("lookup: names list is required")

// Pipeline runs bulk lookups against one provider.
type Pipeline struct {
	resolver  provider.NameResolver
	batchSize int
}

// NewPipeline creates a pipeline. A batchSize below 1 falls back to
// DefaultBatchSize.
func NewPipeline(resolver provider.NameResolver, batchSize int) *Pipeline {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{resolver: resolver, batchSize: batchSize}
}

// LookupAll resolves every name, batches of batchSize concurrent, batches
// sequential. The output always has exactly one entry per input name, in
// input order: a lookup that fails mid-flight becomes an error-status
// placeholder carrying the input name it was dispatched for.
func (p *Pipeline) LookupAll(ctx context.Context, names []string) ([]model.LookupResult, error) {
	if len(names) == 0 {
		return nil, ErrNoNames
	}

	zap.L().Info("bulk name lookup",
		zap.String("source", string(p.resolver.Source())),
		zap.Int("names", len(names)),
		zap.Int("batch_size", p.batchSize),
	)

	settled := batch.Process(ctx, names, p.batchSize, func(ctx context.Context, name string) (model.LookupResult, error) {
		return p.resolver.LookupName(ctx, name)
	})

	results := make([]model.LookupResult, len(names))
	for i, r := range settled {
		if r.Err != nil {
			zap.L().Warn("name lookup failed",
				zap.String("source", string(p.resolver.Source())),
				zap.String("name", names[i]),
				zap.Error(r.Err),
			)
			// The settle results are indexed by dispatch order, so the
			// failed name is recovered directly rather than reconstructed.
			results[i] = model.LookupResult{
				FullName:     names[i],
				PhoneNumbers: []string{},
				Status:       model.LookupError,
				Source:       p.resolver.Source(),
			}
			continue
		}
		results[i] = r.Value
	}
	return results, nil
}
