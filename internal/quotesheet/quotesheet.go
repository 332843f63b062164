// Package quotesheet reads quote tables from CSV or JSON files.
//
// CSV sheets carry a header row naming the columns. The market, selection
// and odds columns are required; an american column may replace odds on
// rows where odds is empty. A row whose price is not a number is still
// returned, with the text kept in Quote.Unparsed.
//
//	market,selection,odds
//	1x2,Home,2.05
//	double_chance,1X,1.30
package quotesheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/market-oracle/pkg/models"
)

// Format is the encoding of a quote sheet
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFor picks a format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported quote sheet extension %q", filepath.Ext(path))
	}
}

// ReadFile loads the quotes of a sheet on disk
func ReadFile(path string) ([]models.Quote, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote sheet: %w", err)
	}
	defer f.Close()

	return Read(f, format)
}

// Read decodes quotes in the given format
func Read(r io.Reader, format Format) ([]models.Quote, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("unsupported quote sheet format %q", format)
	}
}

// ReadJSON decodes a JSON array of quotes
func ReadJSON(r io.Reader) ([]models.Quote, error) {
	var quotes []models.Quote
	if err := json.NewDecoder(r).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quote sheet: %w", err)
	}
	return quotes, nil
}

// ReadCSV decodes a CSV sheet with a header row
func ReadCSV(r io.Reader) ([]models.Quote, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("quote sheet is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"market", "selection"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("quote sheet header is missing %q", required)
		}
	}
	_, hasOdds := columns["odds"]
	_, hasAmerican := columns["american"]
	if !hasOdds && !hasAmerican {
		return nil, fmt.Errorf("quote sheet header needs an odds or american column")
	}

	var quotes []models.Quote
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read quote sheet: %w", err)
		}

		line, _ := reader.FieldPos(0)
		quote, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

func parseRecord(record []string, columns map[string]int) (models.Quote, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	quote := models.Quote{
		Market:    field("market"),
		Selection: field("selection"),
	}
	if quote.Market == "" || quote.Selection == "" {
		return quote, fmt.Errorf("market and selection are required")
	}

	// Bad or missing prices stay on the quote; the market builder drops
	// them one by one with an invalid_odds warning
	if odds := field("odds"); odds != "" {
		parsed, err := strconv.ParseFloat(odds, 64)
		if err != nil {
			quote.Unparsed = odds
			return quote, nil
		}
		quote.Odds = parsed
		return quote, nil
	}

	if american := field("american"); american != "" {
		parsed, err := strconv.Atoi(strings.TrimPrefix(american, "+"))
		if err != nil {
			quote.Unparsed = american
			return quote, nil
		}
		quote.American = &parsed
	}

	return quote, nil
}
