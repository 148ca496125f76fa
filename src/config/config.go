package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Version is sent to the backend in the X-Client-Version header.
const Version = "1.4.2"

type Config struct {
	Port             string
	APIBaseURL       string
	DashboardURL     string
	RedisURL         string
	MySQLDSN         string
	DiscordToken     string
	DiscordChannelID string
	AllowedOrigins   []string

	VerifyTimeout      time.Duration
	CacheTTL           time.Duration
	CacheMaxSize       int
	SweepInterval      time.Duration
	StatsFlushInterval time.Duration
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getseconds(key string, def int) time.Duration {
	n, err := strconv.Atoi(getenv(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

func Load() Config {
	maxSize, err := strconv.Atoi(getenv("CACHE_MAX_SIZE", "100"))
	if err != nil || maxSize <= 0 {
		maxSize = 100
	}

	return Config{
		Port:             getenv("PORT", "8710"),
		APIBaseURL:       getenv("API_BASE_URL", "https://api.mitraverify.com"),
		DashboardURL:     getenv("DASHBOARD_URL", "https://app.mitraverify.com/dashboard"),
		RedisURL:         getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		MySQLDSN:         os.Getenv("MYSQL_DSN"),
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		AllowedOrigins: []string{
			"chrome-extension://" + getenv("EXTENSION_ID", "mitraverify-extension"),
			"http://localhost:3000",
		},
		VerifyTimeout:      getseconds("VERIFY_TIMEOUT", 30),
		CacheTTL:           getseconds("CACHE_TTL", 300),
		CacheMaxSize:       maxSize,
		SweepInterval:      getseconds("SWEEP_INTERVAL", 60),
		StatsFlushInterval: getseconds("STATS_FLUSH_INTERVAL", 120),
	}
}
