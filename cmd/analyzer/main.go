// Command analyzer runs external search keyword revenue attribution over a local
// hit-data TSV and writes the dated report into the configured output location.
//
// Usage:
//
//	analyzer [-config config.yaml] <input.tsv>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ignite/search-attribution/internal/config"
	"github.com/ignite/search-attribution/internal/etl"
	"github.com/ignite/search-attribution/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: analyzer [-config config.yaml] <input.tsv>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	inputPath := flag.Arg(0)

	if _, err := os.Stat(inputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Input file not found: %s\n", inputPath)
		return 1
	}

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	ctx := context.Background()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize storage: %v\n", err)
		return 1
	}

	res, err := etl.New(cfg, store).RunFile(ctx, inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Attribution run failed: %v\n", err)
		return 1
	}

	fmt.Printf("Wrote %d rows to %s (run %s)\n", res.ReportRows, res.Output, res.RunID)
	return 0
}
