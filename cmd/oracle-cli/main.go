package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/oracle"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/quotesheet"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/registry"
	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

func main() {
	sport := flag.String("sport", "football", "sport key of the quote sheet")
	file := flag.String("file", "", "quote sheet (.csv or .json)")
	tolerance := flag.Float64("tolerance", -1, "contradiction tolerance (default from engine)")
	compact := flag.Bool("compact", false, "print compact JSON")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: oracle-cli -sport football -file quotes.csv")
		flag.PrintDefaults()
		os.Exit(2)
	}

	quotes, err := quotesheet.ReadFile(*file)
	if err != nil {
		logger.WithError(err).Fatal("failed to read quote sheet")
	}

	sportRegistry, err := registry.NewDefault()
	if err != nil {
		logger.WithError(err).Fatal("failed to register sports")
	}

	snapshot := models.Snapshot{Sport: *sport, Quotes: quotes}
	if *tolerance >= 0 {
		snapshot.Options = &models.OptionOverrides{Tolerance: tolerance}
	}

	result, err := oracle.NewEngine(sportRegistry, models.DefaultOptions()).AnalyzeSnapshot(snapshot)
	if err != nil {
		var insufficient *models.InsufficientDataError
		if errors.As(err, &insufficient) {
			logger.WithFields(logrus.Fields{"missing": insufficient.Outcomes, "excluded": insufficient.Excluded}).Error("no market on the sheet covers every outcome")
			os.Exit(1)
		}
		logger.WithError(err).Fatal("analysis failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	if !*compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(result); err != nil {
		logger.WithError(err).Fatal("failed to write result")
	}
}
