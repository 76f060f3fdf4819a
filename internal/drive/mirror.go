package drive

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kmeatops/inventory-recon/backend-go/internal/storage"
	"github.com/kmeatops/inventory-recon/backend-go/pkg/logger"
)

const mirrorPrefix = "drive/"

// MirrorService copies Drive workbooks into object storage so the
// reports keep working when the Drive share is unavailable, and reads
// the stored copies back out again.
type MirrorService struct {
	driveService *Service
	store        storage.ObjectStorage
	dataDir      string
	log          zerolog.Logger
}

func NewMirrorService(driveService *Service, store storage.ObjectStorage, dataDir string) *MirrorService {
	return &MirrorService{
		driveService: driveService,
		store:        store,
		dataDir:      dataDir,
		log:          logger.With("mirror"),
	}
}

// MirrorFile copies one Drive file into object storage and returns its
// object key.
func (s *MirrorService) MirrorFile(ctx context.Context, fileID, name string) (string, error) {
	data, err := s.driveService.DownloadFileBytes(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", fileID, err)
	}

	key := mirrorPrefix + path.Base(name)
	if err := s.store.UploadObject(ctx, key, data); err != nil {
		return "", err
	}

	s.log.Info().
		Str("file_id", fileID).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("mirrored drive file to object storage")
	return key, nil
}

// MirrorFolder copies every spreadsheet in a Drive folder and returns
// the stored object keys.
func (s *MirrorService) MirrorFolder(ctx context.Context, folderID string) ([]string, error) {
	files, err := s.driveService.ListFiles(folderID)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, f := range files {
		if !isSpreadsheet(f.Name) {
			continue
		}
		select {
		case <-ctx.Done():
			return keys, ctx.Err()
		default:
		}
		key, err := s.MirrorFile(ctx, f.ID, f.Name)
		if err != nil {
			return keys, fmt.Errorf("failed to mirror %s: %w", f.Name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// ListMirrored lists the workbook copies held in object storage.
func (s *MirrorService) ListMirrored(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.store.ListObjects(ctx, mirrorPrefix)
}

// OpenMirrored reads one mirrored workbook back into memory.
func (s *MirrorService) OpenMirrored(ctx context.Context, key string) ([]byte, error) {
	if !strings.HasPrefix(key, mirrorPrefix) {
		return nil, fmt.Errorf("key %s is outside the mirror prefix", key)
	}
	return s.store.GetObject(ctx, key)
}

// RestoreFile writes a mirrored workbook into the local data directory,
// where the file-based workbook source picks it up. Returns the local
// path written.
func (s *MirrorService) RestoreFile(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, mirrorPrefix) {
		return "", fmt.Errorf("key %s is outside the mirror prefix", key)
	}

	dest := filepath.Join(s.dataDir, path.Base(key))
	if err := s.store.DownloadObject(ctx, key, dest); err != nil {
		return "", err
	}

	s.log.Info().
		Str("key", key).
		Str("dest", dest).
		Msg("restored mirrored workbook")
	return dest, nil
}

func isSpreadsheet(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}
