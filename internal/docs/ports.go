// Package docs defines the document-sharing ports the run depends on and
// a factory that selects a backend. The run downloads one configuration
// workbook and publishes one recommendations workbook per cycle; nothing
// here knows about spreadsheets or allocation.
package docs

import "context"

type (
	// ConfigFetcher downloads the configuration workbook.
	ConfigFetcher interface {
		FetchConfig(ctx context.Context) ([]byte, error)
	}

	// ResultPublisher stores the rendered recommendations workbook under
	// the given base name and returns a backend-specific reference.
	ResultPublisher interface {
		Publish(ctx context.Context, name string, content []byte) (ref string, err error)
	}

	// Store is the full document-sharing collaborator.
	Store interface {
		ConfigFetcher
		ResultPublisher
	}
)
