package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmeatops/inventory-recon/backend-go/internal/storage"
)

type memoryStore struct {
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStore) DownloadObject(ctx context.Context, key, destPath string) error {
	data, ok := m.objects[key]
	if !ok {
		return fmt.Errorf("no object %s", key)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

func (m *memoryStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("no object %s", key)
	}
	return data, nil
}

func (m *memoryStore) UploadObject(ctx context.Context, key string, data []byte) error {
	m.objects[key] = data
	return nil
}

var _ storage.ObjectStorage = (*memoryStore)(nil)

func TestMirrorReadBack(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	dir := t.TempDir()
	svc := NewMirrorService(nil, store, dir)

	require.NoError(t, store.UploadObject(ctx, "drive/erp_stock.xlsx", []byte("erp")))
	require.NoError(t, store.UploadObject(ctx, "exports/old.xlsx", []byte("other")))

	objects, err := svc.ListMirrored(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "drive/erp_stock.xlsx", objects[0].Key)
	require.Equal(t, int64(3), objects[0].Size)

	data, err := svc.OpenMirrored(ctx, "drive/erp_stock.xlsx")
	require.NoError(t, err)
	require.Equal(t, []byte("erp"), data)

	// keys outside the mirror prefix stay unreachable
	_, err = svc.OpenMirrored(ctx, "exports/old.xlsx")
	require.Error(t, err)

	dest, err := svc.RestoreFile(ctx, "drive/erp_stock.xlsx")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "erp_stock.xlsx"), dest)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, []byte("erp"), written)
}
