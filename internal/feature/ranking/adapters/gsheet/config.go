// Package gsheet provides a client for the Google Sheets gviz CSV export endpoint.
package gsheet

import (
	"os"
	"time"
)

// DefaultSheetName is the literal sheet tab exported as CSV.
const DefaultSheetName = "Sheet1"

// Config holds configuration for the spreadsheet CSV export client.
type Config struct {
	SpreadsheetID string        // Spreadsheet identifier (document key in the export URL)
	SheetName     string        // Sheet tab name passed to the export endpoint
	BaseURL       string        // Base URL (e.g., "https://docs.google.com")
	Timeout       time.Duration // HTTP request timeout
}

// LoadConfig loads spreadsheet configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("SPREADSHEET_BASE_URL")
	if base == "" {
		base = "https://docs.google.com"
	}
	return Config{
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		SheetName:     DefaultSheetName,
		BaseURL:       base,
		Timeout:       10 * time.Second,
	}
}
