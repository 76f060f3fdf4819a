// backend-go/cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/kmeatops/inventory-recon/backend-go/internal/config"
	"github.com/kmeatops/inventory-recon/backend-go/internal/drive"
	"github.com/kmeatops/inventory-recon/backend-go/internal/storage"
)

// The document server exposes the source workbooks living in Google
// Drive and mirrors them into object storage for downstream jobs.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	credentialsJSON := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON")
	if credentialsJSON == "" {
		data, err := os.ReadFile(cfg.Drive.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to load Drive credentials: %v", err)
		}
		credentialsJSON = string(data)
	}

	driveService, err := drive.NewService(credentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	store, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure storage bucket: %v", err)
	}

	mirrorService := drive.NewMirrorService(driveService, store, cfg.App.DataDir)

	// Create router
	r := mux.NewRouter()

	// Register routes
	driveHandler := drive.NewHandler(driveService, mirrorService)
	driveHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Document server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
