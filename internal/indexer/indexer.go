// Package indexer walks the EDLS file and the forces store and writes every record
// past the stored watermark into the collection.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
	"github.com/akolanti/ragsearch/internal/domain/indexModel"
	"github.com/akolanti/ragsearch/pkg/logger_i"
)

type Engine interface {
	AddEDLS(ctx context.Context, item docModel.EDLSItem) docModel.IngestResult
	AddForces(ctx context.Context, item forcesModel.StrengthWeakness, partyName string) docModel.IngestResult
}

type EDLSSource interface {
	Load(ctx context.Context) ([]docModel.EDLSItem, error)
}

type ForcesSource interface {
	ListParties() []forcesModel.PoliticalParty
	ListElements(partyId string) []forcesModel.StrengthWeakness
}

type Indexer struct {
	// runs are serialized so two jobs never race on the watermark
	mu sync.Mutex

	engine  Engine
	edls    EDLSSource
	forces  ForcesSource
	tracker indexModel.TrackerStore
	logger  *logger_i.Logger
	now     func() time.Time
}

func New(engine Engine, edls EDLSSource, forces ForcesSource, tracker indexModel.TrackerStore) *Indexer {
	return &Indexer{
		engine:  engine,
		edls:    edls,
		forces:  forces,
		tracker: tracker,
		logger:  logger_i.NewLogger("indexer"),
		now:     time.Now,
	}
}

type pendingRecord struct {
	id  string
	add func(ctx context.Context) docModel.IngestResult
}

// Run indexes the requested sources and persists the tracker even when a source fails.
func (ix *Indexer) Run(ctx context.Context, sources ...indexModel.Source) (indexModel.IndexReport, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	log := ix.logger.WithTrace(ctx)
	var report indexModel.IndexReport

	state, err := ix.tracker.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("loading tracker: %w", err)
	}

	var errs []error
	for _, src := range sources {
		switch src {
		case indexModel.SourceEDLS:
			records, err := ix.edlsRecords(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			log.Info("indexing EDLS", "records", len(records), "watermark", state.EDLSLastId)
			n, committed, failed, err := ix.index(ctx, records, &state.EDLSLastId)
			state.EDLSCount += committed
			report.EDLSIndexed += n
			report.Failed += failed
			if err != nil {
				errs = append(errs, err)
			}
		case indexModel.SourceForces:
			records := ix.forcesRecords()
			log.Info("indexing forces/faiblesses", "records", len(records), "watermark", state.ForcesLastId)
			n, committed, failed, err := ix.index(ctx, records, &state.ForcesLastId)
			state.ForcesCount += committed
			report.ForcesIndexed += n
			report.Failed += failed
			if err != nil {
				errs = append(errs, err)
			}
		default:
			errs = append(errs, fmt.Errorf("unknown source %q", src))
		}
	}
	report.Total = report.EDLSIndexed + report.ForcesIndexed

	state.LastRun = ix.now().UTC().Format(time.RFC3339)
	if err = ix.tracker.Save(ctx, state); err != nil {
		errs = append(errs, fmt.Errorf("saving tracker: %w", err))
	}

	log.Info("indexing finished", "indexed", report.Total, "failed", report.Failed,
		"edlsTotal", state.EDLSCount, "forcesTotal", state.ForcesCount)
	return report, errors.Join(errs...)
}

func (ix *Indexer) Reset(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.logger.WithTrace(ctx).Info("resetting indexing tracker")
	return ix.tracker.Reset(ctx)
}

func (ix *Indexer) State(ctx context.Context) (indexModel.TrackerState, error) {
	return ix.tracker.Load(ctx)
}

// index adds records past *lastId in ascending id order. The watermark only moves
// while every add so far has succeeded, so a failed record is retried next run.
// committed counts the records the watermark moved past. A record added ahead of a
// failure is added again on the retry but committed only once.
func (ix *Indexer) index(ctx context.Context, records []pendingRecord, lastId *string) (indexed int, committed int, failed int, err error) {
	slices.SortStableFunc(records, func(a, b pendingRecord) int {
		return indexModel.CompareIds(a.id, b.id)
	})

	log := ix.logger.WithTrace(ctx)
	advancing := true
	for _, r := range records {
		if err = ctx.Err(); err != nil {
			return indexed, committed, failed, err
		}
		if r.id == "" {
			// can never succeed, so it does not hold the watermark back
			failed++
			log.Error("skipping record without id")
			continue
		}
		if *lastId != "" && indexModel.CompareIds(r.id, *lastId) <= 0 {
			continue
		}

		res := r.add(ctx)
		if res.Status != docModel.IngestStatusSuccess {
			failed++
			advancing = false
			log.Error("indexing failed", "id", r.id, "error", res.Error)
			continue
		}
		indexed++
		if advancing {
			*lastId = r.id
			committed++
		}
	}
	return indexed, committed, failed, nil
}

func (ix *Indexer) edlsRecords(ctx context.Context) ([]pendingRecord, error) {
	items, err := ix.edls.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]pendingRecord, 0, len(items))
	for _, item := range items {
		out = append(out, pendingRecord{
			id: item.Id,
			add: func(ctx context.Context) docModel.IngestResult {
				return ix.engine.AddEDLS(ctx, item)
			},
		})
	}
	return out, nil
}

func (ix *Indexer) forcesRecords() []pendingRecord {
	var out []pendingRecord
	for _, party := range ix.forces.ListParties() {
		for _, el := range ix.forces.ListElements(party.Id) {
			out = append(out, pendingRecord{
				id: el.Id,
				add: func(ctx context.Context) docModel.IngestResult {
					return ix.engine.AddForces(ctx, el, party.Nom)
				},
			})
		}
	}
	return out
}
