package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartlayout/pkg/chart"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/observability"
)

// =============================================================================
// Export - many charts, one capture
// =============================================================================

// Job is one chart of an export.
type Job struct {
	Name    string
	Spec    chart.Spec
	Grid    chart.GridConfig
	Options Options
}

// ExportOptions configures [Runner.Export].
type ExportOptions struct {
	// Concurrency bounds how many layouts run at once. Zero uses
	// DefaultConcurrency.
	Concurrency int

	// OnReady is called, possibly concurrently, when a job's layout is
	// done. ready counts the jobs done so far, this one included.
	OnReady func(index, ready, total int)
}

// ExportResult is the outcome of one job, in input order.
type ExportResult struct {
	Name      string
	Layout    layout.ComputedLayout
	Artifacts map[string][]byte
	CacheInfo CacheInfo
}

// Export lays out every job concurrently, waits until all of them are
// ready, then renders them one by one in input order. Each job renders
// with its index as the effect instance, so the artifacts can share one
// document without clashing ids.
//
// The first failure cancels the remaining layouts and is returned; no
// job is rendered unless every layout succeeded.
func (r *Runner) Export(ctx context.Context, jobs []Job, eo ExportOptions) ([]ExportResult, error) {
	total := len(jobs)
	results := make([]ExportResult, total)
	if total == 0 {
		return results, nil
	}
	limit := eo.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu    sync.Mutex
		ready int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, hit, err := r.ComputeLayoutWithCacheInfo(gctx, job.Spec, job.Grid, job.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", jobName(job, i), err)
			}
			results[i] = ExportResult{Name: job.Name, Layout: l, CacheInfo: CacheInfo{LayoutHit: hit}}

			mu.Lock()
			ready++
			n := ready
			mu.Unlock()

			observability.Pipeline().OnExportReady(gctx, i, total)
			if eo.OnReady != nil {
				eo.OnReady(i, n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Logger.Debug("all charts ready", "count", total)

	for i, job := range jobs {
		opts := job.Options
		opts.Instance = i
		opts.inheritStyle(job.Spec)
		artifacts, hit, err := r.RenderWithCacheInfo(ctx, results[i].Layout, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jobName(job, i), err)
		}
		results[i].Artifacts = artifacts
		results[i].CacheInfo.RenderHit = hit
	}
	return results, nil
}

func jobName(j Job, i int) string {
	if j.Name != "" {
		return j.Name
	}
	return fmt.Sprintf("chart %d", i)
}
