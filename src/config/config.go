package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Seed             int64
	Syndicates       []int
	YearStart        int
	YearEnd          int
	LogLevel         string
	OutputDir        string
	SQLiteExportPath string
	CatalogPath      string
	MaxParallel      int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading run configuration...")

	seed := getEnvAsInt64("SEED", 42)

	syndicates, err := parseIntList(getEnv("SYNDICATES", "33,623,1176,2010"))
	if err != nil {
		log.Fatalf("FATAL: SYNDICATES must be a comma-separated list of syndicate numbers: %v", err)
	}
	if len(syndicates) == 0 {
		log.Fatalf("FATAL: SYNDICATES must name at least one syndicate.")
	}

	yearStart := getEnvAsInt("YEAR_START", 2021)
	yearEnd := getEnvAsInt("YEAR_END", 2024)
	if yearEnd < yearStart {
		log.Fatalf("FATAL: YEAR_END (%d) must not precede YEAR_START (%d).", yearEnd, yearStart)
	}

	maxParallel := getEnvAsInt("MAX_PARALLEL", 4)
	if maxParallel < 1 {
		log.Printf("WARNING: MAX_PARALLEL %d invalid, using 1.", maxParallel)
		maxParallel = 1
	}

	Cfg = &AppConfig{
		Seed:             seed,
		Syndicates:       syndicates,
		YearStart:        yearStart,
		YearEnd:          yearEnd,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		OutputDir:        getEnv("OUTPUT_DIR", "./output"),
		SQLiteExportPath: getEnv("SQLITE_EXPORT_PATH", "./output/syndforge.db"),
		CatalogPath:      getEnv("CATALOG_PATH", ""),
		MaxParallel:      maxParallel,
	}

	log.Printf("Configuration loaded: Seed=%d, Syndicates=%v, Years=%d-%d, OutputDir=%s",
		Cfg.Seed, Cfg.Syndicates, Cfg.YearStart, Cfg.YearEnd, Cfg.OutputDir)
}

func parseIntList(value string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}
