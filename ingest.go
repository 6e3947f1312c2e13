package thirteenf

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/finlens/thirteenf/quarter"
)

// Service ties the normalizer, parser and store into the single ingestion
// entry point. One Service owns one alias table, so identifiers resolve
// consistently across every filing it ingests.
type Service struct {
	norm   *Normalizer
	parser *Parser
	store  *Store
}

// NewService builds an ingestion service with a fresh normalizer and store.
func NewService(opts Options) *Service {
	norm := NewNormalizer()
	return &Service{
		norm:   norm,
		parser: NewParser(norm, opts),
		store:  NewStore(),
	}
}

// Store exposes the underlying filing store for read-side consumers.
func (s *Service) Store() *Store { return s.store }

// Normalizer exposes the shared alias table.
func (s *Service) Normalizer() *Normalizer { return s.norm }

// IngestResult summarizes what one ingestion did to the store.
type IngestResult struct {
	Rejected int       `json:"rejected"`
	Warnings []Warning `json:"warnings,omitempty"`
	Replaced bool      `json:"replaced,omitempty"`
}

// Ingest parses one raw filing and indexes it. The only fatal conditions are
// an empty fund identifier and an unparsable quarter; everything else
// degrades to per-row rejections and warnings on the resulting filing.
// Re-ingesting an existing (fund, quarter) pair replaces the stored filing
// and surfaces a DUPLICATE_QUARTER warning.
func (s *Service) Ingest(raw RawFiling) (*Filing, IngestResult, error) {
	if raw.Fund == "" {
		return nil, IngestResult{}, fmt.Errorf("filing has no fund identifier")
	}
	q, err := quarter.Parse(raw.Quarter)
	if err != nil {
		return nil, IngestResult{}, fmt.Errorf("filing of %s: %w", raw.Fund, err)
	}

	f := s.parser.Parse(raw.Fund, q, raw.Rows, raw.ReportedTotal)
	res := IngestResult{
		Rejected: f.RejectedRows(),
		Warnings: f.Warnings(),
		Replaced: s.store.Put(f),
	}
	if res.Replaced {
		w := warnf(WarnDuplicateQuarter, "%s already had a filing for %s, replaced", raw.Fund, q)
		res.Warnings = append(res.Warnings, w)
		log.Printf("ingest: %s", w)
	}
	return f, res, nil
}

// IngestAll ingests a batch of raw filings concurrently with a bounded
// number of workers. Per-filing failures are collected, not fatal: the
// returned error wraps the first failure and the count, and every filing
// that parsed is in the store regardless.
func (s *Service) IngestAll(raws []RawFiling) error {
	workers := runtime.NumCPU()
	if workers > len(raws) {
		workers = len(raws)
	}
	if workers < 1 {
		return nil
	}

	jobs := make(chan RawFiling)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	failed := 0
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				if _, _, err := s.Ingest(raw); err != nil {
					mu.Lock()
					failed++
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	for _, raw := range raws {
		jobs <- raw
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("%d of %d filings failed, first: %w", failed, len(raws), firstErr)
	}
	return nil
}
