package drive

import (
	"fmt"
	"strings"
)

// WorkbookNames are the Drive file names of the three source workbooks.
type WorkbookNames struct {
	ERPStock string
	SMStock  string
	TradeLog string
}

// WorkbookSource resolves the ledger workbooks inside one Drive folder
// and hands their bytes to the workbook reader.
type WorkbookSource struct {
	service  *Service
	folderID string
	names    WorkbookNames
}

func NewWorkbookSource(service *Service, folderID string, names WorkbookNames) *WorkbookSource {
	return &WorkbookSource{service: service, folderID: folderID, names: names}
}

func (w *WorkbookSource) ERPStock() ([]byte, error) {
	return w.fetch(w.names.ERPStock)
}

func (w *WorkbookSource) SMStock() ([]byte, error) {
	return w.fetch(w.names.SMStock)
}

func (w *WorkbookSource) TradeLog() ([]byte, error) {
	return w.fetch(w.names.TradeLog)
}

func (w *WorkbookSource) fetch(name string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("workbook name is not configured")
	}
	file, err := w.service.FindFileByName(w.folderID, name)
	if err != nil {
		return nil, err
	}
	data, err := w.service.DownloadFileBytes(file.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to download workbook %s: %w", name, err)
	}
	return data, nil
}
