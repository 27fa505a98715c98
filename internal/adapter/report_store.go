package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "algomate.dev/pkg/algomate/internal/model"
)

// ReportStore persists conversion reports.
type ReportStore interface {
	SaveReport(ctx context.Context, path m.Path, report m.Report) error
	LoadReport(ctx context.Context, path m.Path) (m.Report, error)
}

// YAMLReportStore stores reports as YAML documents.
type YAMLReportStore struct{}

// NewReportStore creates a YAML-backed ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport writes report to path, creating parent directories as needed.
func (s *YAMLReportStore) SaveReport(_ context.Context, path m.Path, report m.Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

// LoadReport reads a report previously written by SaveReport.
func (s *YAMLReportStore) LoadReport(_ context.Context, path m.Path) (m.Report, error) {
	// #nosec G304 - report path is provided by the user on the command line
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}
