// Package main is the entry point for the foresight scenario analyzer. It is
// the thin surrounding application around the core pipeline: it loads
// configuration, reads a JSON dataset into memory, runs one analysis, and
// writes the resulting report as JSON. File handling lives here on purpose;
// the core packages only ever see in-memory data.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/aristath/foresight/internal/analysis"
	"github.com/aristath/foresight/internal/config"
	"github.com/aristath/foresight/internal/domain"
	"github.com/aristath/foresight/pkg/logger"
)

func main() {
	dataPath := flag.String("data", "", "path to the JSON dataset (categories, impacts, valuations)")
	outPath := flag.String("out", "", "path for the JSON report (default: stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	if *dataPath == "" {
		log.Fatal().Msg("No dataset given, use -data")
	}

	dataset, err := loadDataset(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dataPath).Msg("Failed to load dataset")
	}

	report, err := analysis.New(cfg, log).Run(context.Background(), dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	if err := writeReport(report, *outPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}

func loadDataset(path string) (*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dataset domain.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func writeReport(report *analysis.Report, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
