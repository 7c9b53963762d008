package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/filecrate/filecrate-backend-go/internal/config"
	appHTTP "github.com/filecrate/filecrate-backend-go/internal/handler/http"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/cron"
	"github.com/filecrate/filecrate-backend-go/internal/pkg/storage"
	catalogService "github.com/filecrate/filecrate-backend-go/internal/service/catalog"
	uploadService "github.com/filecrate/filecrate-backend-go/internal/service/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var dir storage.Directory
	switch cfg.Storage.Type {
	case "local":
		dir, err = storage.NewLocalDirectory(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	case "minio":
		dir, err = storage.NewMinioDirectory(cfg.Minio)
		if err != nil {
			log.Fatal("Failed to initialize minio storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	// Local storage stages writes on disk; sweep stale leftovers hourly
	if local, ok := dir.(*storage.LocalDirectory); ok {
		storageJobs := cron.NewStorageJobs(local, time.Hour)
		scheduler := cron.NewScheduler()
		scheduler.AddJob("staging-sweep", time.Hour, storageJobs.SweepStaging)
		scheduler.Start()
		defer scheduler.Stop()
	}

	uploadSvc := uploadService.NewUploadService(dir, cfg.Upload.MaxFileSize, cfg.Upload.MaxFileCount)
	catalogSvc := catalogService.NewCatalogService(dir, cfg.Storage.MaxSize)

	fileHandler := appHTTP.NewFileHandler(uploadSvc, catalogSvc, cfg.Upload.MaxFileCount)

	router := appHTTP.NewRouter(cfg, fileHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	fmt.Printf("Storage backend: %s\n", cfg.Storage.Type)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
