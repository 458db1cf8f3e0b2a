package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transportbilling/batch"
	"transportbilling/billing"
	"transportbilling/config"
	"transportbilling/db"
	"transportbilling/db/mongo"
	"transportbilling/db/postgres"
	"transportbilling/handlers"
	"transportbilling/ledger"
	"transportbilling/logging"
	"transportbilling/pdf"
	"transportbilling/renderer"
	"transportbilling/repository"
	"transportbilling/routes"
	"transportbilling/storage"
	"transportbilling/templates"
	"transportbilling/upload"
)

func main() {
	// Load config from .env or environment
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	dbType, err := db.ParseDBType(cfg.DBType)
	if err != nil {
		log.Fatal(err)
	}

	var lrRepo repository.LRRepository
	switch dbType {
	case db.Postgres:
		if err := db.RunMigrations(cfg.PostgresURL, db.MigrationsSource); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			log.Fatal(err)
		}
		defer pg.Disconnect()
		lrRepo = repository.NewPostgresLRRepo(pg.Conn)

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL)
		if err := mg.Connect(); err != nil {
			log.Fatal(err)
		}
		defer mg.Disconnect()
		lrRepo = repository.NewMongoLRRepo(mg.Client)
	}

	ctx := context.Background()
	objects, err := newObjectStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	store := templates.NewStore(cfg.Billing.TemplateDir)
	// A missing template is a deployment defect; refuse to start.
	if err := store.Preload(templates.All...); err != nil {
		log.Fatalf("templates: %v (run cmd/templategen)", err)
	}

	pdfRenderer := pdf.NewRenderer(cfg.PDF.Timeout,
		pdf.Tier{Name: cfg.PDF.Converter, Converter: &pdf.CommandConverter{Binary: cfg.PDF.Converter}},
		pdf.Tier{Name: "chrome", Converter: &pdf.ChromeRenderer{Settle: 300 * time.Millisecond}},
	)

	orchestrator := batch.New(batch.Deps{
		Repo:       lrRepo,
		Classifier: billing.NewClassifier(cfg.Billing.Rates, cfg.Billing.Rework),
		Templates:  store,
		Renderer: renderer.NewRenderer(store, cfg.Billing.OutputDir, renderer.Company{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			GSTIN:   cfg.Company.GSTIN,
		}),
		Ledger:      ledger.NewWriter(store, cfg.Billing.OutputDir),
		PDF:         pdfRenderer,
		Uploader:    upload.NewDispatcher(objects, cfg.Billing.UploadConcurrency),
		Concurrency: cfg.Billing.BatchConcurrency,
		GeneratePDF: cfg.PDF.Enabled,
	})

	mux := routes.NewRouter(
		&handlers.LRHandler{Repo: lrRepo},
		&handlers.BillingHandler{Runner: orchestrator},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// Batches can run for minutes; give in-flight requests a chance to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("shutdown: %v", err)
	}
}

func newObjectStorage(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error) {
	if cfg.Backend == "blob" {
		return storage.NewBlobClient(ctx, cfg.BlobURL, cfg.PublicURL)
	}
	return storage.NewR2Client(ctx, cfg.R2)
}
