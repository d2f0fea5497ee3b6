package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Storefront variants share the codebase and differ in display
// configuration only.
const (
	VariantBoutique = "boutique"
	VariantHome     = "home"
)

type Config struct {
	ServerPort int
	LogLevel   string

	// sqlite is the default "local storage" file; postgres is selectable
	// for shared deployments.
	StorageDriver string
	StoragePath   string
	DatabaseURL   string

	JWTSecret string

	KafkaBrokers []string
	StorageTopic string

	Variant     string
	CatalogPath string

	FreeShippingOver float64
	ShippingFee      float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServerPort:    envIntDefault("SERVER_PORT", 8080),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
		StorageDriver: envDefault("STORAGE_DRIVER", "sqlite"),
		StoragePath:   envDefault("STORAGE_PATH", "storefront.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     envDefault("JWT_SECRET", "dev-secret"),
		KafkaBrokers:  csv(os.Getenv("KAFKA_BROKERS")),
		StorageTopic:  envDefault("STORAGE_TOPIC", "storage_events"),
		Variant:       envDefault("STORE_VARIANT", VariantBoutique),
		CatalogPath:   envDefault("CATALOG_PATH", "data/products.json"),
	}

	switch cfg.Variant {
	case VariantBoutique:
		cfg.FreeShippingOver = envFloatDefault("FREE_SHIPPING_OVER", 99)
	case VariantHome:
		cfg.FreeShippingOver = envFloatDefault("FREE_SHIPPING_OVER", 199)
	default:
		return nil, fmt.Errorf("unknown STORE_VARIANT %q", cfg.Variant)
	}
	cfg.ShippingFee = envFloatDefault("SHIPPING_FEE", 9.99)

	return cfg, nil
}

// OpenDB opens the durable store per the configured driver and migrations
// are left to the callers that own the tables.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.StorageDriver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.StoragePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return db, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is empty")
		}
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
