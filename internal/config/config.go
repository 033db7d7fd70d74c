package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	AppEnv       string
	DBDSN        string
	RedisURL     string
	LogFile      string
	TemplatesDir string
	CORSOrigins  string

	CSVURL             string
	CSVProxyURL        string
	AllowCSVOverride   bool
	OverrideHosts      []string // hosts a csv_url override may point at
	MaxOverrideSources int
	CacheTTL           time.Duration
	FetchTimeout       time.Duration

	OrderScriptURL  string
	OrderRatePerMin int
	WhatsAppNumber  string
	InstagramHandle string
	StoreName       string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] .env file not found, using process environment")
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		DBDSN:        getEnv("DB_DSN", "thriftshop.db"), // sqlite file in project root
		RedisURL:     os.Getenv("REDIS_URL"),
		LogFile:      os.Getenv("LOG_FILE"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),

		CSVURL:             os.Getenv("CSV_URL"),
		CSVProxyURL:        os.Getenv("CSV_PROXY_URL"),
		AllowCSVOverride:   getBool("ALLOW_CSV_OVERRIDE", false),
		OverrideHosts:      getList("CSV_OVERRIDE_HOSTS", "docs.google.com"),
		MaxOverrideSources: getInt("MAX_OVERRIDE_SOURCES", 8),
		CacheTTL:           getDuration("CACHE_TTL", 15*time.Minute),
		FetchTimeout:       getDuration("FETCH_TIMEOUT", 15*time.Second),

		OrderScriptURL:  os.Getenv("ORDER_SCRIPT_URL"),
		OrderRatePerMin: getInt("ORDER_RATE_PER_MIN", 30),
		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", "919760427922"),
		InstagramHandle: strings.TrimPrefix(getEnv("INSTAGRAM_HANDLE", "thriftbymusk"), "@"),
		StoreName:       getEnv("STORE_NAME", "Thrift by Musk"),
	}

	log.Printf("[config] PORT=%s APP_ENV=%s DB_DSN=%s REDIS=%t CSV_URL set=%t PROXY=%q OVERRIDE=%t HOSTS=%v CACHE_TTL=%s ORDER_SCRIPT set=%t",
		cfg.Port, cfg.AppEnv, cfg.DBDSN, cfg.RedisURL != "", cfg.CSVURL != "", cfg.CSVProxyURL,
		cfg.AllowCSVOverride, cfg.OverrideHosts, cfg.CacheTTL, cfg.OrderScriptURL != "")
	return cfg
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getList splits a comma separated value, dropping blanks.
func getList(key, def string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, def), ",") {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
