package drive

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/gorilla/mux"
)

type Handler struct {
	service       *Service
	mirrorService *MirrorService
}

func NewHandler(service *Service, mirrorService *MirrorService) *Handler {
	return &Handler{
		service:       service,
		mirrorService: mirrorService,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods("GET")
	router.HandleFunc("/api/drive/files/download", h.DownloadFile).Methods("GET")
	router.HandleFunc("/api/drive/mirror", h.MirrorFile).Methods("POST")
	router.HandleFunc("/api/drive/mirror/folder", h.MirrorFolder).Methods("POST")
	router.HandleFunc("/api/mirror/files", h.ListMirrored).Methods("GET")
	router.HandleFunc("/api/mirror/files/download", h.DownloadMirrored).Methods("GET")
	router.HandleFunc("/api/mirror/restore", h.RestoreMirrored).Methods("POST")
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	folderPath := query.Get("path")

	var files []*File
	var err error

	if folderPath != "" {
		// Find folder by path
		folderID, err = h.service.FindFolderByPath(folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	files, err = h.service.ListFiles(folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		http.Error(w, "fileId parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=workbook.xlsx")

	err := h.service.DownloadFile(fileID, w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) MirrorFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	name := r.URL.Query().Get("name")
	if fileID == "" || name == "" {
		http.Error(w, "fileId and name parameters are required", http.StatusBadRequest)
		return
	}

	key, err := h.mirrorService.MirrorFile(r.Context(), fileID, name)
	if err != nil {
		http.Error(w, fmt.Sprintf("mirror failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "key": key})
}

func (h *Handler) ListMirrored(w http.ResponseWriter, r *http.Request) {
	objects, err := h.mirrorService.ListMirrored(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(objects)
}

func (h *Handler) DownloadMirrored(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key parameter is required", http.StatusBadRequest)
		return
	}

	data, err := h.mirrorService.OpenMirrored(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	w.Write(data)
}

func (h *Handler) RestoreMirrored(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key parameter is required", http.StatusBadRequest)
		return
	}

	dest, err := h.mirrorService.RestoreFile(r.Context(), key)
	if err != nil {
		http.Error(w, fmt.Sprintf("restore failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success", "path": dest})
}

func (h *Handler) MirrorFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		http.Error(w, "folderId parameter is required", http.StatusBadRequest)
		return
	}

	keys, err := h.mirrorService.MirrorFolder(r.Context(), folderID)
	if err != nil {
		http.Error(w, fmt.Sprintf("mirror failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "keys": keys})
}
