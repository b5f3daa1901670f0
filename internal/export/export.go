// Package export writes a cost breakdown as a spreadsheet, CSV, JSON or PDF report.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/rateio/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLS, FormatCSV, FormatJSON, FormatPDF}

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "xls", "excel", "spreadsheet":
		return FormatXLS, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q (want xls, csv, json or pdf)", s)
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string { return string(f) }

// Report is what gets exported: one engine run plus when it was taken.
type Report struct {
	GeneratedAt time.Time
	Breakdown   model.Breakdown
}

// NewReport stamps b with the current time.
func NewReport(b model.Breakdown) Report {
	return Report{GeneratedAt: time.Now(), Breakdown: b}
}

// Write renders the report to w in the given format.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatXLS:
		return writeXLS(w, r)
	case FormatCSV:
		return writeCSV(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatPDF:
		return writePDF(w, r)
	}
	return fmt.Errorf("unknown export format %q", string(f))
}

// WriteFile writes the report to dir as base_YYYYMMDD_HHMMSS.ext and returns
// the absolute path. An empty dir means the working directory.
func WriteFile(r Report, f Format, dir, base string) (string, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return "", err
	}
	if base == "" {
		base = "cost-report"
	}

	stamp := r.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	outputFilename, err := generateFilename(base, dir, f.Ext(), stamp)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating %s file: %w", f, err)
	}
	if err := Write(file, r, f); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("error writing %s file: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error closing %s file: %w", f, err)
	}

	return filepath.Abs(outputFilename)
}

// generateFilename builds a timestamped file name and makes sure dir exists.
func generateFilename(base, dir, ext string, at time.Time) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	filename := fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_150405"), ext)
	return filepath.Join(dir, filename), nil
}

// Section titles and labels shared by the tabular formats.
const (
	titleReport     = "DETAILED COST REPORT"
	titleGeneral    = "GENERAL INFORMATION"
	titleDetail     = "FIXED COST DETAIL"
	titleAllocation = "ALLOCATION METRICS"

	labelDate       = "Analysis date"
	labelRate       = "USD/BRL rate"
	labelTotal      = "MONTHLY TOTAL:"
	labelMode       = "Allocation mode"
	labelUsers      = "Target users"
	labelPercentage = "Percentage per user"
	labelPerUser    = "Cost per user (R$)"
)

var detailHeader = []string{"Cost name", "Currency", "Original amount", "Converted amount (R$)", "Share (%)"}

const dateLayout = "02/01/2006"
