// Command fuzzdex searches a JSON record collection from the terminal.
//
//	fuzzdex -config fuzzdex.yaml -query "old man"
//	fuzzdex -data books.json -keys title,author.name -query "old man"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/fuzzdex"
	"github.com/dshills/fuzzdex/internal/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML configuration file")
		dataPath    = flag.String("data", "", "JSON records file (overrides config)")
		query       = flag.String("query", "", "query string")
		keyList     = flag.String("keys", "", "comma-separated key paths (overrides config)")
		limit       = flag.Int("limit", 0, "maximum results to print (0 = unlimited)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("fuzzdex\nVersion: %s\nBuild Time: %s\n", version, buildTime)
		os.Exit(0)
	}

	if err := run(*configPath, *dataPath, *keyList, *query, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "fuzzdex: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dataPath, keyList, query string, limit int) error {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.ApplyDefaults()
	}

	// Flags override the file.
	if dataPath != "" {
		cfg.Data = dataPath
	}
	if keyList != "" {
		cfg.Keys = cfg.Keys[:0]
		for _, name := range strings.Split(keyList, ",") {
			cfg.Keys = append(cfg.Keys, config.KeyConfig{Name: strings.TrimSpace(name), Weight: 1})
		}
	}
	if limit > 0 {
		cfg.Output.Limit = limit
	}
	if cfg.Data == "" {
		return fmt.Errorf("no records file: set -data or the data field in the config")
	}

	// Results go to stdout; logs stay on stderr.
	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is uninteresting

	records, err := loadRecords(cfg.Data)
	if err != nil {
		return err
	}
	logger.Debug("records loaded", zap.String("path", cfg.Data), zap.Int("count", len(records)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := cfg.Options()
	fz, err := fuzzdex.New(ctx, records, opts)
	if err != nil {
		return err
	}

	results, err := fz.Search(ctx, query)
	if err != nil {
		return err
	}
	logger.Debug("search complete", zap.String("query", query), zap.Int("hits", len(results)))

	if cfg.Output.Limit > 0 && len(results) > cfg.Output.Limit {
		results = results[:cfg.Output.Limit]
	}
	return printResults(os.Stdout, results)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// loadRecords reads a JSON file holding either an array of objects or
// an array of strings.
func loadRecords(path string) ([]any, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read records %s: %w", path, err)
	}
	var records []any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records %s: %w", path, err)
	}
	return records, nil
}

func printResults(w io.Writer, results []fuzzdex.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	type line struct {
		Index   int             `json:"index"`
		Score   *float64        `json:"score,omitempty"`
		Item    any             `json:"item"`
		Matches []fuzzdex.Match `json:"matches,omitempty"`
	}
	out := make([]line, 0, len(results))
	for _, r := range results {
		l := line{Index: r.Index, Item: r.Item, Matches: r.Matches}
		if r.HasScore {
			score := r.Score
			l.Score = &score
		}
		out = append(out, l)
	}
	return enc.Encode(out)
}
