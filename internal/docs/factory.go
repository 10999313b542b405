package docs

import (
	"context"
	"fmt"

	"paycalc/internal/docs/drive"
	"paycalc/internal/docs/memory"
	"paycalc/internal/log"
)

// Backend selects the document-sharing implementation.
type Backend string

const (
	BackendDrive  Backend = "drive"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	return b == BackendDrive || b == BackendMemory
}

// NewStore builds the configured backend. The memory backend serves a
// local configuration workbook and keeps published output in memory; it
// exists for offline runs and tests.
func NewStore(ctx context.Context, backend Backend, localConfigFile string, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentDocs})
	}

	switch backend {
	case BackendDrive:
		cli, err := drive.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize drive store: %w", err)
		}
		logger.Info("Initialized Drive document store")
		return cli, nil
	case BackendMemory:
		store, err := memory.NewFromFile(localConfigFile)
		if err != nil {
			return nil, fmt.Errorf("initialize memory store: %w", err)
		}
		logger.Info("Initialized memory document store", log.FieldLocalPath, localConfigFile)
		return store, nil
	default:
		return nil, fmt.Errorf("invalid docs backend: %s", backend)
	}
}
