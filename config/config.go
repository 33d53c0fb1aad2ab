package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Run modes. The mode is a configuration input, not a CLI flag.
const (
	ModeCollect = "collect" // paginate search results, write the URL artifact
	ModeDetails = "details" // read the URL artifact, scrape detail pages
	ModeFull    = "full"    // both phases in one process
)

// Detail-extraction strategies.
const (
	StrategyJSON = "json" // embedded-JSON blob over plain HTTP
	StrategyDOM  = "dom"  // rendered browser session
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL     string
	SiteOrigin  string
	MaxListings int
	MaxPages    int

	RunMode        string
	DetailStrategy string

	RequestTimeout time.Duration
	BrowserTimeout time.Duration
	MinDelay       time.Duration
	MaxDelay       time.Duration
	MaxRetries     int

	ProxyURL    string
	ProxyCAPath string
	UserAgent   string

	URLFilePath    string
	JSONOutputPath string
	DebugDir       string
	SelectorsPath  string

	ChromeBin string
	Headless  bool

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:     getEnv("ZILLOW_BASE_URL", "https://www.zillow.com/seattle-wa/rentals/"),
		SiteOrigin:  getEnv("ZILLOW_ORIGIN", "https://www.zillow.com"),
		MaxListings: getEnvInt("MAX_LISTINGS", 20),
		MaxPages:    getEnvInt("MAX_PAGES", 20),

		RunMode:        getEnv("RUN_MODE", ModeFull),
		DetailStrategy: getEnv("DETAIL_STRATEGY", StrategyJSON),

		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_MS", 20000)) * time.Millisecond,
		BrowserTimeout: time.Duration(getEnvInt("BROWSER_TIMEOUT_MS", 90000)) * time.Millisecond,
		MinDelay:       time.Duration(getEnvInt("MIN_DELAY_MS", 2000)) * time.Millisecond,
		MaxDelay:       time.Duration(getEnvInt("MAX_DELAY_MS", 5000)) * time.Millisecond,
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		ProxyURL:    getEnv("PROXY_URL", ""),
		ProxyCAPath: getEnv("PROXY_CA_PATH", ""),
		UserAgent: getEnv("USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
				"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		URLFilePath:    getEnv("URL_FILE_PATH", "./output/listing_urls.csv"),
		JSONOutputPath: getEnv("JSON_OUTPUT_PATH", "./output/detailed_listings.json"),
		DebugDir:       getEnv("DEBUG_DIR", "./output/debug"),
		SelectorsPath:  getEnv("SELECTORS_PATH", ""),

		ChromeBin: getEnv("CHROME_BIN", ""),
		Headless:  getEnvBool("HEADLESS", true),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
