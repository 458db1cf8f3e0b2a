package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"transportbilling/billing"
	"transportbilling/logging"
	"transportbilling/storage"
)

type Config struct {
	Port        string
	DBType      string
	PostgresURL string
	MongoURL    string
	LogLevel    string

	Storage StorageConfig
	Billing BillingConfig
	PDF     PDFConfig
	Company CompanyConfig
}

// StorageConfig selects where artifacts are uploaded.
type StorageConfig struct {
	Backend string // r2 | blob
	R2      storage.R2Config
	BlobURL string
	// PublicURL is prefixed to blob keys when set.
	PublicURL string
}

type BillingConfig struct {
	TemplateDir       string
	OutputDir         string
	RatesFile         string
	Rates             billing.RateTable
	Rework            billing.Route
	BatchConcurrency  int
	UploadConcurrency int
}

type PDFConfig struct {
	Enabled   bool
	Converter string
	Timeout   time.Duration
}

type CompanyConfig struct {
	Name    string
	GSTIN   string
	Address string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Infof("config: no .env file found, using system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_TYPE", "postgres")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("STORAGE_BACKEND", "r2")
	v.SetDefault("TEMPLATE_DIR", "templates/xlsx")
	v.SetDefault("OUTPUT_DIR", "output")
	v.SetDefault("RATES_FILE", "")
	v.SetDefault("BATCH_CONCURRENCY", 8)
	v.SetDefault("UPLOAD_CONCURRENCY", 6)
	v.SetDefault("GENERATE_PDF", true)
	v.SetDefault("PDF_CONVERTER", "soffice")
	v.SetDefault("PDF_TIMEOUT", "60s")
	v.SetDefault("REWORK_ORIGIN", "kolhapur")
	v.SetDefault("REWORK_DESTINATION", "solapur")

	// Keys without a default only show up in AllKeys once bound.
	for _, env := range []string{
		"POSTGRES_URL", "MONGO_URL",
		"R2_BUCKET", "R2_ACCOUNT_ID", "R2_PUBLIC_URL", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY",
		"BLOB_URL", "BLOB_PUBLIC_URL",
		"COMPANY_NAME", "COMPANY_GSTIN", "COMPANY_ADDRESS",
	} {
		_ = v.BindEnv(env)
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		DBType:      v.GetString("DB_TYPE"),
		PostgresURL: v.GetString("POSTGRES_URL"),
		MongoURL:    v.GetString("MONGO_URL"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
			R2: storage.R2Config{
				Bucket:          v.GetString("R2_BUCKET"),
				AccountID:       v.GetString("R2_ACCOUNT_ID"),
				PublicURL:       v.GetString("R2_PUBLIC_URL"),
				AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
			},
			BlobURL:   v.GetString("BLOB_URL"),
			PublicURL: v.GetString("BLOB_PUBLIC_URL"),
		},
		Billing: BillingConfig{
			TemplateDir: v.GetString("TEMPLATE_DIR"),
			OutputDir:   v.GetString("OUTPUT_DIR"),
			RatesFile:   v.GetString("RATES_FILE"),
			Rework: billing.Route{
				Origin:      v.GetString("REWORK_ORIGIN"),
				Destination: v.GetString("REWORK_DESTINATION"),
			},
			BatchConcurrency:  v.GetInt("BATCH_CONCURRENCY"),
			UploadConcurrency: v.GetInt("UPLOAD_CONCURRENCY"),
		},
		PDF: PDFConfig{
			Enabled:   v.GetBool("GENERATE_PDF"),
			Converter: v.GetString("PDF_CONVERTER"),
			Timeout:   v.GetDuration("PDF_TIMEOUT"),
		},
		Company: CompanyConfig{
			Name:    v.GetString("COMPANY_NAME"),
			GSTIN:   v.GetString("COMPANY_GSTIN"),
			Address: v.GetString("COMPANY_ADDRESS"),
		},
	}

	rates, err := billing.LoadRates(cfg.Billing.RatesFile)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	cfg.Billing.Rates = rates

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Billing.BatchConcurrency <= 0 {
		return fmt.Errorf("BATCH_CONCURRENCY must be positive, got %d", c.Billing.BatchConcurrency)
	}
	if c.Billing.UploadConcurrency <= 0 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be positive, got %d", c.Billing.UploadConcurrency)
	}
	switch c.Storage.Backend {
	case "r2", "blob":
	default:
		return fmt.Errorf("STORAGE_BACKEND %q not supported", c.Storage.Backend)
	}
	if c.PDF.Timeout <= 0 {
		return fmt.Errorf("PDF_TIMEOUT must be positive")
	}
	return nil
}
