// Package etl wires the attribution analyzer to its row sources and report sinks:
// local hit files for CLI runs, S3 objects for event-triggered runs.
package etl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/search-attribution/internal/attribution"
	"github.com/ignite/search-attribution/internal/config"
	"github.com/ignite/search-attribution/internal/hitdata"
	"github.com/ignite/search-attribution/internal/pkg/logger"
	"github.com/ignite/search-attribution/internal/storage"
)

// Job runs keyword attribution end to end.
type Job struct {
	cfg   *config.Config
	store *storage.Storage
}

// Result describes one completed (or skipped) run.
type Result struct {
	RunID      string               `json:"run_id"`
	Output     string               `json:"output,omitempty"` // file path or s3:// URL
	ReportRows int                  `json:"report_rows"`
	Counters   attribution.Counters `json:"counters"`
	Report     string               `json:"report,omitempty"`
	Skipped    bool                 `json:"skipped,omitempty"`
	SkipReason string               `json:"skip_reason,omitempty"`
}

// New creates a job bound to the given config and storage.
func New(cfg *config.Config, store *storage.Storage) *Job {
	return &Job{cfg: cfg, store: store}
}

// RunFile processes a local hit-data TSV and writes the dated report into the
// configured output location.
func (j *Job) RunFile(ctx context.Context, inputPath string) (*Result, error) {
	src, err := hitdata.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	res, err := j.run(src)
	if err != nil {
		return nil, err
	}

	output, err := j.saveReport(ctx, res)
	if err != nil {
		return nil, err
	}
	res.Output = output

	logger.Info("attribution run complete",
		"run_id", res.RunID, "input", inputPath, "output", res.Output, "report_rows", res.ReportRows)
	return res, nil
}

// RunS3 processes a hit-data object from S3 and uploads the report to the configured
// output bucket. Events for the wrong bucket or outside the raw prefix are skipped,
// not failed, so stale or unrelated notifications never error the pipeline.
func (j *Job) RunS3(ctx context.Context, bucket, key string) (*Result, error) {
	if j.cfg.Storage.InputBucket != "" && bucket != j.cfg.Storage.InputBucket {
		reason := fmt.Sprintf("unexpected bucket %s (expected %s)", bucket, j.cfg.Storage.InputBucket)
		logger.Warn("skipping S3 run", "reason", reason, "key", key)
		return &Result{RunID: uuid.NewString(), Skipped: true, SkipReason: reason}, nil
	}

	rawPrefix := strings.TrimPrefix(j.cfg.Storage.RawPrefix, "/")
	if rawPrefix != "" && !strings.HasPrefix(key, rawPrefix) {
		reason := fmt.Sprintf("object key %s outside raw prefix %s", key, rawPrefix)
		logger.Info("skipping S3 run", "reason", reason)
		return &Result{RunID: uuid.NewString(), Skipped: true, SkipReason: reason}, nil
	}

	body, err := j.store.OpenInput(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	src, err := hitdata.NewReader(body)
	if err != nil {
		return nil, err
	}

	res, err := j.run(src)
	if err != nil {
		return nil, err
	}

	output, err := j.saveReport(ctx, res)
	if err != nil {
		return nil, err
	}
	res.Output = output

	logger.Info("attribution run complete",
		"run_id", res.RunID, "input", fmt.Sprintf("s3://%s/%s", bucket, key),
		"output", res.Output, "report_rows", res.ReportRows)
	return res, nil
}

// RunSource processes an already-open row source and returns the result without
// persisting the report. Used by the HTTP trigger, which returns the report inline.
func (j *Job) RunSource(src hitdata.RowSource) (*Result, error) {
	return j.run(src)
}

func (j *Job) run(src hitdata.RowSource) (*Result, error) {
	analyzer := attribution.NewAnalyzer(j.cfg.Attribution.InternalHosts)

	totals, err := analyzer.Run(src)
	if err != nil {
		return nil, err
	}

	ranked := attribution.Ranked(totals)
	return &Result{
		RunID:      uuid.NewString(),
		ReportRows: len(ranked),
		Counters:   analyzer.Stats(),
		Report:     attribution.RenderTSV(ranked),
	}, nil
}

func (j *Job) saveReport(ctx context.Context, res *Result) (string, error) {
	filename, err := attribution.DefaultOutputFilename(j.cfg.Report.Timezone, time.Now())
	if err != nil {
		return "", err
	}
	return j.store.SaveReport(ctx, filename, res.Report)
}
