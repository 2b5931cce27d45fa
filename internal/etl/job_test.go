package etl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/search-attribution/internal/attribution"
	"github.com/ignite/search-attribution/internal/config"
	"github.com/ignite/search-attribution/internal/hitdata"
	"github.com/ignite/search-attribution/internal/storage"
)

func newSourceFromString(s string) (*hitdata.Reader, error) {
	return hitdata.NewReader(strings.NewReader(s))
}

const sampleTSV = "hit_time_gmt\tip\tuser_agent\treferrer\tevent_list\tproduct_list\n" +
	"1254033280\t44.12.96.2\tMozilla/5.0\thttps://www.google.com/search?q=Ipod\t\t\n" +
	"1254033379\t44.12.96.2\tMozilla/5.0\thttp://www.esshopzilla.com/checkout/\t1\tElectronics;Ipod;1;290;\n"

func newLocalJob(t *testing.T) (*Job, string) {
	t.Helper()

	outDir := t.TempDir()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.LocalPath = outDir

	store, err := storage.New(context.Background(), cfg.Storage)
	require.NoError(t, err)

	return New(cfg, store), outDir
}

func TestRunFile(t *testing.T) {
	job, outDir := newLocalJob(t)

	inputPath := filepath.Join(t.TempDir(), "hits.tsv")
	require.NoError(t, os.WriteFile(inputPath, []byte(sampleTSV), 0o644))

	res, err := job.RunFile(context.Background(), inputPath)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.ReportRows)
	assert.Equal(t, int64(2), res.Counters.RowsSeen)
	assert.InDelta(t, 290.0, res.Counters.RevenueAttributed, 1e-9)

	wantName, err := attribution.DefaultOutputFilename("America/Chicago", time.Now())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, wantName), res.Output)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t,
		"Search Engine Domain\tSearch Keyword\tRevenue\ngoogle.com\tipod\t290.00\n",
		string(data))
}

func TestRunFile_MissingInput(t *testing.T) {
	job, _ := newLocalJob(t)

	_, err := job.RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestRunFile_SchemaError(t *testing.T) {
	job, _ := newLocalJob(t)

	inputPath := filepath.Join(t.TempDir(), "bad.tsv")
	require.NoError(t, os.WriteFile(inputPath, []byte("ip\tuser_agent\n1.2.3.4\tua\n"), 0o644))

	_, err := job.RunFile(context.Background(), inputPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestRunS3_SkipsUnexpectedBucket(t *testing.T) {
	job, _ := newLocalJob(t)
	job.cfg.Storage.InputBucket = "expected-bucket"

	res, err := job.RunS3(context.Background(), "other-bucket", "raw/hits.tsv")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Contains(t, res.SkipReason, "unexpected bucket")
}

func TestRunS3_SkipsOutsideRawPrefix(t *testing.T) {
	job, _ := newLocalJob(t)
	job.cfg.Storage.InputBucket = "hitdata"
	job.cfg.Storage.RawPrefix = "raw/"

	res, err := job.RunS3(context.Background(), "hitdata", "other/hits.tsv")
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Contains(t, res.SkipReason, "outside raw prefix")
}

func TestRunSource_ReturnsInlineReport(t *testing.T) {
	job, _ := newLocalJob(t)

	src, err := newSourceFromString(sampleTSV)
	require.NoError(t, err)

	res, err := job.RunSource(src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Report, "Search Engine Domain\t"))
	assert.Contains(t, res.Report, "google.com\tipod\t290.00")
}
