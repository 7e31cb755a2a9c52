package exporter

import (
	"menu-audit/internal/config"
	"menu-audit/internal/model"
)

// Exporter is the unified interface for all reporting strategies
type Exporter interface {
	Export(report *model.Report, cfg *config.Config) error
}
