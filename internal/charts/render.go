package charts

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"enrolldash/internal/analysis"
	"enrolldash/internal/errors"

	"golang.org/x/sync/errgroup"
)

// Job renders a single chart
type Job func() (*Image, error)

// RenderAll runs the jobs concurrently and returns the images in job order.
// The first failure cancels the set and no images are returned.
func RenderAll(ctx context.Context, jobs ...Job) ([]*Image, error) {
	start := time.Now()
	images := make([]*Image, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := runJob(job)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("chart rendering failed: %v", err)
		return nil, err
	}

	logger.Debug("rendered %d charts in %s", len(images), time.Since(start))
	return images, nil
}

// runJob converts a panic inside the chart library into an INTERNAL_ERROR
func runJob(job Job) (img *Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered from chart panic: %v\n%s", r, debug.Stack())
			img = nil
			err = errors.New(errors.CodeInternalError, fmt.Sprintf("chart rendering failed: %v", r))
		}
	}()
	return job()
}

// EnrollmentJobs returns the three EDA charts of a report
func (r *Renderer) EnrollmentJobs(report *analysis.EnrollmentReport) []Job {
	return []Job{
		func() (*Image, error) { return r.PercentageByMajor(report.Years) },
		func() (*Image, error) { return r.DepartmentTrends(report.DepartmentTrends) },
		func() (*Image, error) { return r.RetentionSatisfaction(report.MetricTrends) },
	}
}

// ProductJobs returns the product view chart of a report
func (r *Renderer) ProductJobs(report *analysis.ProductReport) []Job {
	return []Job{
		func() (*Image, error) { return r.TopProducts(report.Totals) },
	}
}
