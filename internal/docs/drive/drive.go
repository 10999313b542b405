// Package drive implements the document-sharing ports on Google Drive.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
)

// Client reads the configuration workbook from a fixed file and uploads
// run output into a fixed folder.
type Client struct {
	svc          *gdrive.Service
	configFileID string
	outputFolder string
}

// NewFromEnv creates a Drive client using environment variables.
// Required: DRIVE_CONFIG_FILE_ID.
// Optional: DRIVE_OUTPUT_FOLDER_ID (uploads land in the Drive root when
// unset). Credentials via GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	configFileID := strings.TrimSpace(os.Getenv("DRIVE_CONFIG_FILE_ID"))
	if configFileID == "" {
		return nil, errors.New("missing DRIVE_CONFIG_FILE_ID")
	}
	outputFolder := strings.TrimSpace(os.Getenv("DRIVE_OUTPUT_FOLDER_ID"))

	svc, err := newDriveService(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	return &Client{
		svc:          svc,
		configFileID: configFileID,
		outputFolder: outputFolder,
	}, nil
}

// newDriveService initializes a Drive Service using Service Account
// credentials.
func newDriveService(ctx context.Context) (*gdrive.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return service, nil
}

// FetchConfig downloads the configuration workbook.
func (c *Client) FetchConfig(ctx context.Context) ([]byte, error) {
	slog.InfoContext(ctx, "Downloading config workbook from Drive", "file_id", c.configFileID)
	resp, err := c.svc.Files.Get(c.configFileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download config workbook: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read config workbook: %w", err)
	}
	slog.InfoContext(ctx, "Config workbook downloaded", "bytes", len(content))
	return content, nil
}

// Publish uploads the workbook under a timestamp-suffixed unique name so
// successive runs never overwrite each other.
func (c *Client) Publish(ctx context.Context, name string, content []byte) (string, error) {
	unique := uniqueName(name, time.Now())
	meta := &gdrive.File{Name: unique}
	if c.outputFolder != "" {
		meta.Parents = []string{c.outputFolder}
	}

	slog.InfoContext(ctx, "Uploading workbook to Drive", "name", unique)
	created, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(content)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload workbook: %w", err)
	}
	slog.InfoContext(ctx, "Workbook uploaded", "name", unique, "file_id", created.Id)
	return created.Id, nil
}

// uniqueName appends a timestamp before the extension:
// "report.xlsx" -> "report_20240308153000.xlsx".
func uniqueName(name string, now time.Time) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, now.Format("20060102150405"), ext)
}
