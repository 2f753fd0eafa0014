// Package engine generates the full dataset for a run: free variables
// through the shared sampler, dependent fields through the derived
// identities, triangles and the capital aggregation, then a single
// validation pass before anything is released to export.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/username/syndforge/src/catalog"
	"github.com/username/syndforge/src/logger"
	"github.com/username/syndforge/src/models"
	"github.com/username/syndforge/src/randctx"
	"github.com/username/syndforge/src/sampler"
	"github.com/username/syndforge/src/validation"
	"golang.org/x/sync/errgroup"
)

type Engine struct {
	cat         *catalog.Catalog
	store       *sampler.Store
	seed        int64
	maxParallel int
}

func New(cat *catalog.Catalog, seed int64, maxParallel int) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Engine{
		cat:         cat,
		store:       sampler.New(randctx.New(seed)),
		seed:        seed,
		maxParallel: maxParallel,
	}, nil
}

// RunResult is everything a run produced. On a rejected run Failures is
// non-empty and callers receive it verbatim alongside ErrValidationFailed.
type RunResult struct {
	RunID    string
	Seed     int64
	Dataset  *models.Dataset
	Failures []models.ValidationFailure
}

type syndicateData struct {
	rows      map[string][]models.DerivedRecord
	triangles []models.ClaimsTriangle
	capital   []models.CapitalResult
}

// Run generates, validates and returns the dataset. Syndicates are
// generated in parallel; per-key sampling is order-independent, so the
// result is identical for any scheduling. The validator is the join
// point: it runs only once every syndicate has finished.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	logger.L.Info("Generation run starting",
		"runID", runID,
		"seed", e.seed,
		"syndicates", len(e.cat.Syndicates),
		"periods", len(e.cat.Years))

	results := make([]*syndicateData, len(e.cat.Syndicates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i, s := range e.cat.Syndicates {
		g.Go(func() error {
			data, err := e.generateSyndicate(gctx, s)
			if err != nil {
				return fmt.Errorf("generating syndicate %s: %w", s, err)
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dataset := assemble(results)
	failures := validation.New(e.cat).Validate(dataset)

	result := &RunResult{RunID: runID, Seed: e.seed, Dataset: dataset, Failures: failures}
	if len(failures) > 0 {
		logger.L.Error("Generation run rejected by validator", "runID", runID, "failures", len(failures))
		return result, fmt.Errorf("%w: %d invariant violation(s)", models.ErrValidationFailed, len(failures))
	}

	var rowCount int
	for _, t := range dataset.Tables {
		rowCount += len(t.Rows)
	}
	logger.L.Info("Generation run complete", "runID", runID, "tables", len(dataset.Tables), "rows", rowCount)
	return result, nil
}

func (e *Engine) generateSyndicate(ctx context.Context, s models.Syndicate) (*syndicateData, error) {
	tris, ordered, err := e.buildTriangles(s)
	if err != nil {
		return nil, err
	}

	data := &syndicateData{
		rows:      make(map[string][]models.DerivedRecord),
		triangles: ordered,
	}
	for _, p := range e.cat.Periods() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, form := range Forms() {
			rows, err := form.build(e, s, p, tris)
			if err != nil {
				return nil, fmt.Errorf("building form %s for period %s: %w", form.Name, p, err)
			}
			data.rows[form.Name] = append(data.rows[form.Name], rows...)
		}

		capital, err := e.capitalFigures(s, p)
		if err != nil {
			return nil, err
		}
		data.capital = append(data.capital, capital)
	}
	return data, nil
}

// buildTriangles materializes one triangle per (origin year, line),
// each converging toward an ultimate sampled once for that key.
func (e *Engine) buildTriangles(s models.Syndicate) (map[triKey]models.ClaimsTriangle, []models.ClaimsTriangle, error) {
	ultSpec, err := e.cat.Dist(catalog.DistUltimateLoss)
	if err != nil {
		return nil, nil, err
	}

	tris := make(map[triKey]models.ClaimsTriangle)
	ordered := make([]models.ClaimsTriangle, 0, len(e.cat.Years)*len(e.cat.Lines.Codes))
	for _, origin := range e.cat.Years {
		for _, line := range e.cat.Lines.Codes {
			key := sampler.Key{Syndicate: s, Period: models.Period{Year: origin}, Class: line.Code, Field: catalog.DistUltimateLoss}
			ultimate, err := e.store.Amount(key, ultSpec)
			if err != nil {
				return nil, nil, err
			}
			tri := models.ClaimsTriangle{
				Syndicate:  s,
				OriginYear: origin,
				Class:      line.Code,
				Ultimate:   ultimate,
				Cumulative: CumulativeDevelopment(ultimate, e.cat.Curve),
			}
			tris[triKey{origin: origin, line: line.Code}] = tri
			ordered = append(ordered, tri)
		}
	}
	return tris, ordered, nil
}

// assemble concatenates per-syndicate output in configured syndicate
// order so the run result is byte-stable regardless of scheduling.
func assemble(results []*syndicateData) *models.Dataset {
	dataset := &models.Dataset{Tables: make(map[string]*models.Table)}
	for _, form := range Forms() {
		table := &models.Table{Form: form.Name, Columns: form.Columns}
		for _, data := range results {
			table.Rows = append(table.Rows, data.rows[form.Name]...)
		}
		dataset.Tables[form.Name] = table
	}
	for _, data := range results {
		dataset.Triangles = append(dataset.Triangles, data.triangles...)
		dataset.Capital = append(dataset.Capital, data.capital...)
	}
	return dataset
}
