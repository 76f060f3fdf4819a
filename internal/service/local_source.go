// backend-go/internal/service/local_source.go
package service

import (
	"os"
	"path/filepath"
)

// LocalWorkbookSource serves the source workbooks from a directory on
// disk. It mirrors the remote source for offline runs and tests.
type LocalWorkbookSource struct {
	dir      string
	erpFile  string
	smFile   string
	tradeLog string
}

func NewLocalWorkbookSource(dir, erpFile, smFile, tradeLog string) *LocalWorkbookSource {
	return &LocalWorkbookSource{dir: dir, erpFile: erpFile, smFile: smFile, tradeLog: tradeLog}
}

func (s *LocalWorkbookSource) ERPStock() ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, s.erpFile))
}

func (s *LocalWorkbookSource) SMStock() ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, s.smFile))
}

func (s *LocalWorkbookSource) TradeLog() ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, s.tradeLog))
}

var _ WorkbookFetcher = (*LocalWorkbookSource)(nil)
