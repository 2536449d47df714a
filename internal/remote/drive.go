package remote

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/tripfolio/tripfolio/internal/domain"
)

const mimeJSON = "application/json"

// DriveStore implements Store against the Google Drive v3 API.
type DriveStore struct {
	auth *Authenticator

	mu  sync.Mutex
	svc *drive.Service
}

// NewDriveStore builds a DriveStore on top of the given session. The Drive
// client itself is created lazily on first use, after login has produced a
// token.
func NewDriveStore(auth *Authenticator) *DriveStore {
	return &DriveStore{auth: auth}
}

// IsAuthenticated delegates to the session.
func (d *DriveStore) IsAuthenticated(ctx context.Context) bool {
	return d.auth.IsAuthenticated(ctx)
}

// Reset drops the cached Drive client. Call after login or logout so the
// next API call picks up the new session.
func (d *DriveStore) Reset() {
	d.mu.Lock()
	d.svc = nil
	d.mu.Unlock()
}

func (d *DriveStore) service(ctx context.Context) (*drive.Service, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.svc == nil {
		ts, err := d.auth.TokenSource(ctx)
		if err != nil {
			return nil, err
		}
		svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("remote.DriveStore: create client: %w", err)
		}
		d.svc = svc
	}
	return d.svc, nil
}

// FindByName looks up a non-trashed file by exact name.
func (d *DriveStore) FindByName(ctx context.Context, name string) (*FileMetadata, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("name = '%s' and trashed = false", strings.ReplaceAll(name, "'", `\'`))
	list, err := svc.Files.List().
		Q(query).
		Fields("files(id, name, modifiedTime, size)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("remote.DriveStore.FindByName: %w", err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	return toMetadata(list.Files[0])
}

// Download fetches the file content. Empty content is a data-integrity
// error, never a valid document.
func (d *DriveStore) Download(ctx context.Context, fileID string) (string, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return "", err
	}

	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("remote.DriveStore.Download: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("remote.DriveStore.Download: read body: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("remote.DriveStore.Download: %w: file %s is empty", domain.ErrCorruptDocument, fileID)
	}
	return string(body), nil
}

// Upload creates the file when fileID is empty, otherwise updates it in
// place. Returns the file ID.
func (d *DriveStore) Upload(ctx context.Context, name, content, fileID string) (string, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return "", err
	}

	media := strings.NewReader(content)
	if fileID == "" {
		created, err := svc.Files.Create(&drive.File{Name: name, MimeType: mimeJSON}).
			Media(media).
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("remote.DriveStore.Upload: create: %w", err)
		}
		return created.Id, nil
	}

	updated, err := svc.Files.Update(fileID, &drive.File{}).
		Media(media).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("remote.DriveStore.Upload: update: %w", err)
	}
	return updated.Id, nil
}

// Metadata fetches metadata for a known file ID.
func (d *DriveStore) Metadata(ctx context.Context, fileID string) (*FileMetadata, error) {
	svc, err := d.service(ctx)
	if err != nil {
		return nil, err
	}

	f, err := svc.Files.Get(fileID).Fields("id, name, modifiedTime, size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("remote.DriveStore.Metadata: %w", err)
	}
	return toMetadata(f)
}

func toMetadata(f *drive.File) (*FileMetadata, error) {
	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("remote: parse modifiedTime %q: %w", f.ModifiedTime, err)
	}
	return &FileMetadata{
		ID:           f.Id,
		Name:         f.Name,
		ModifiedTime: modified,
		Size:         f.Size,
	}, nil
}
