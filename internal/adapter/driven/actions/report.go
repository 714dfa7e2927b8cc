package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"
)

// RunReport summarizes a completed run for the --report file.
type RunReport struct {
	Repository   string    `json:"repo"`
	StaleLabel   string    `json:"stale_label"`
	DryRun       bool      `json:"dry_run"`
	StaleDate    time.Time `json:"stale_date"`
	ClosedIssues []int     `json:"closed_issues"`
}

// WriteReport writes report as indented JSON to path, replacing any
// existing file atomically.
func WriteReport(path string, report RunReport) error {
	if report.ClosedIssues == nil {
		report.ClosedIssues = []int{}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing run report %s: %w", path, err)
	}
	return nil
}
