// Package backup uploads expense snapshots to Google Drive.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
)

// Transport uploads and downloads named snapshot files.
type Transport interface {
	Upload(ctx context.Context, name string, data []byte) error
	Download(ctx context.Context, name string) ([]byte, error)
}

// ErrSnapshotNotFound is returned when no snapshot with the given name exists.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// DriveTransport stores snapshots as files in Google Drive.
type DriveTransport struct {
	svc      *drive.Service
	folderID string
}

var _ Transport = (*DriveTransport)(nil)

// NewFromEnv creates a Drive transport using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_DRIVE_FOLDER_ID to place
// snapshots in a specific folder.
func NewFromEnv(ctx context.Context) (*DriveTransport, error) {
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

	svc, err := drive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	slog.InfoContext(ctx, "Google Drive service created")

	return &DriveTransport{
		svc:      svc,
		folderID: strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID")),
	}, nil
}

// Upload writes data to a Drive file with the given name, replacing the
// content of an existing file with that name if one exists.
func (t *DriveTransport) Upload(ctx context.Context, name string, data []byte) error {
	fileID, err := t.findFile(ctx, name)
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return err
	}

	if fileID != "" {
		_, err = t.svc.Files.Update(fileID, &drive.File{}).
			Media(bytes.NewReader(data)).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("update drive file: %w", err)
		}
		slog.InfoContext(ctx, "Updated Drive snapshot", "name", name, "size", len(data))
		return nil
	}

	meta := &drive.File{Name: name, MimeType: "application/json"}
	if t.folderID != "" {
		meta.Parents = []string{t.folderID}
	}
	_, err = t.svc.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("create drive file: %w", err)
	}

	slog.InfoContext(ctx, "Created Drive snapshot", "name", name, "size", len(data))
	return nil
}

// Download fetches the content of the named Drive file.
func (t *DriveTransport) Download(ctx context.Context, name string) ([]byte, error) {
	fileID, err := t.findFile(ctx, name)
	if err != nil {
		return nil, err
	}

	resp, err := t.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download drive file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read drive file: %w", err)
	}
	return data, nil
}

func (t *DriveTransport) findFile(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and trashed = false", strings.ReplaceAll(name, "'", "\\'"))
	if t.folderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", t.folderID)
	}

	list, err := t.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 404 {
			return "", ErrSnapshotNotFound
		}
		return "", fmt.Errorf("list drive files: %w", err)
	}

	if len(list.Files) == 0 {
		return "", ErrSnapshotNotFound
	}
	return list.Files[0].Id, nil
}
