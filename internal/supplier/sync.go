package supplier

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"distris-api/internal/domain"
)

// Fetcher is the transport contract the syncer needs: parsed JSON items on
// success, an error otherwise.
type Fetcher interface {
	FetchItems(ctx context.Context, url string) ([]Item, error)
}

// Result is the outcome of one supplier's fetch-and-normalize. Err is set
// when the fetch failed; the rest of the batch is unaffected.
type Result struct {
	SupplierID string           `json:"supplierId"`
	Products   []domain.Product `json:"-"`
	Total      int              `json:"total"`
	Err        error            `json:"-"`
}

// Syncer fetches every configured supplier endpoint, discovers a fresh
// exchange rate if any payload carries one, and normalizes all payloads into
// canonical records. Each supplier is independently fallible.
type Syncer struct {
	fetcher   Fetcher
	endpoints map[string]string
	rates     *RateHolder
	logger    *zap.Logger
}

// NewSyncer builds a syncer over a supplierID→URL endpoint table.
func NewSyncer(fetcher Fetcher, endpoints map[string]string, rates *RateHolder, logger *zap.Logger) *Syncer {
	return &Syncer{
		fetcher:   fetcher,
		endpoints: endpoints,
		rates:     rates,
		logger:    logger,
	}
}

// SyncAll runs the full fan-out. Fetches happen concurrently; rate discovery
// then runs as its own pass over every fetched payload before any
// currency-dependent normalization starts, so back-out never depends on
// iteration order.
func (s *Syncer) SyncAll(ctx context.Context) []Result {
	ids := make([]string, 0, len(s.endpoints))
	for id := range s.endpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	payloads := make(map[string][]Item, len(ids))
	errs := make(map[string]error, len(ids))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id, url string) {
			defer wg.Done()
			items, err := s.fetcher.FetchItems(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[id] = fetchError(id, err)
				return
			}
			payloads[id] = items
		}(id, s.endpoints[id])
	}
	wg.Wait()

	// Rate discovery pass: the freshest hint wins before anyone converts.
	for _, id := range ids {
		items, ok := payloads[id]
		if !ok {
			continue
		}
		src := SourceFor(id)
		if hint, ok := RateHint(src, items); ok {
			if s.rates.Update(hint) {
				s.logger.Info("Exchange rate updated from supplier payload",
					zap.String("supplier_id", id),
					zap.Float64("rate", hint),
				)
			}
		}
	}

	rate := s.rates.Rate()

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if err, failed := errs[id]; failed {
			s.logger.Warn("Supplier sync failed",
				zap.String("supplier_id", id),
				zap.Error(err),
			)
			results = append(results, Result{SupplierID: id, Err: err})
			continue
		}
		products := Normalize(SourceFor(id), payloads[id], rate)
		results = append(results, Result{
			SupplierID: id,
			Products:   products,
			Total:      len(products),
		})
	}

	return results
}

// fetchError attributes a client failure to a supplier, keeping decode
// failures distinguishable from transport ones.
func fetchError(supplierID string, err error) error {
	if errors.Is(err, ErrMalformedPayload) {
		return &MalformedPayloadError{SupplierID: supplierID, Err: err}
	}
	return &UpstreamFetchError{SupplierID: supplierID, Err: err}
}

// SyncOne fetches and normalizes a single supplier, still running the rate
// discovery step on its own payload first.
func (s *Syncer) SyncOne(ctx context.Context, supplierID string) Result {
	url, ok := s.endpoints[supplierID]
	if !ok {
		return Result{SupplierID: supplierID, Err: ErrUnknownSupplier}
	}

	items, err := s.fetcher.FetchItems(ctx, url)
	if err != nil {
		return Result{SupplierID: supplierID, Err: fetchError(supplierID, err)}
	}

	src := SourceFor(supplierID)
	if hint, ok := RateHint(src, items); ok {
		s.rates.Update(hint)
	}

	products := Normalize(src, items, s.rates.Rate())
	return Result{SupplierID: supplierID, Products: products, Total: len(products)}
}
