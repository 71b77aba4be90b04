package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"courtside/internal/records"
	"courtside/internal/sportspress"
	"courtside/internal/stats"
)

// Config is everything the bot reads from the environment
type Config struct {
	// Discord
	DiscordToken string
	AdminRoles   []string

	// League API
	BaseUrl        string
	RequestTimeout time.Duration
	Retries        int
	RetryDelay     time.Duration

	// Reconciliation
	PollInterval        time.Duration
	RecordsScanInterval time.Duration
	Records             records.Config

	// Leaders
	AllTimeListId int
	Seasons       []string
	LeadersCount  int

	// Misc
	StatePath      string
	HealthAddr     string
	CommandTimeout time.Duration
	LogLevel       string
}

// Load reads the configuration from the environment, filling in the
// defaults tuned for the league. Only the discord token is mandatory
func Load() (Config, error) {

	config := Config{
		DiscordToken:        os.Getenv("COURTSIDE_DISCORD_TOKEN"),
		AdminRoles:          getEnvList("COURTSIDE_ADMIN_ROLES", nil),
		BaseUrl:             getEnv("COURTSIDE_API_BASE", sportspress.DEFAULT_BASE),
		RequestTimeout:      getEnvDuration("COURTSIDE_REQUEST_TIMEOUT", 15*time.Second),
		Retries:             getEnvInt("COURTSIDE_RETRIES", 3),
		RetryDelay:          getEnvDuration("COURTSIDE_RETRY_DELAY", 2*time.Second),
		PollInterval:        getEnvDuration("COURTSIDE_POLL_INTERVAL", 180*time.Second),
		RecordsScanInterval: getEnvDuration("COURTSIDE_RECORDS_SCAN_INTERVAL", 3600*time.Second),
		AllTimeListId:       getEnvInt("COURTSIDE_ALL_TIME_LIST_ID", 0),
		Seasons:             getEnvList("COURTSIDE_SEASONS", nil),
		LeadersCount:        getEnvInt("COURTSIDE_LEADERS_COUNT", 10),
		StatePath:           getEnv("COURTSIDE_STATE_PATH", "data/state.json"),
		HealthAddr:          getEnv("COURTSIDE_HEALTH_ADDR", ":8080"),
		CommandTimeout:      getEnvDuration("COURTSIDE_COMMAND_TIMEOUT", 10*time.Second),
		LogLevel:            getEnv("COURTSIDE_LOG_LEVEL", "info"),
	}

	reconciliation := records.DefaultConfig()
	reconciliation.MinFgaForFgPercent = getEnvFloat("COURTSIDE_MIN_FGA_FOR_FG_PERCENT", reconciliation.MinFgaForFgPercent)
	reconciliation.Min3paFor3pPercent = getEnvFloat("COURTSIDE_MIN_3PA_FOR_3P_PERCENT", reconciliation.Min3paFor3pPercent)
	reconciliation.EventsPerPage = getEnvInt("COURTSIDE_EVENTS_PER_PAGE", reconciliation.EventsPerPage)
	reconciliation.LookbackPages = getEnvInt("COURTSIDE_LOOKBACK_PAGES", reconciliation.LookbackPages)
	// The milestone thresholds are tuned per league, so each list can
	// be overridden individually
	for stat, envName := range map[string]string{
		stats.POINTS:      "COURTSIDE_MILESTONES_POINTS",
		stats.REBOUNDS:    "COURTSIDE_MILESTONES_REBOUNDS",
		stats.ASSISTS:     "COURTSIDE_MILESTONES_ASSISTS",
		stats.STEALS:      "COURTSIDE_MILESTONES_STEALS",
		stats.BLOCKS:      "COURTSIDE_MILESTONES_BLOCKS",
		stats.THREES_MADE: "COURTSIDE_MILESTONES_THREES",
	} {
		if thresholds := getEnvIntList(envName, nil); len(thresholds) > 0 {
			reconciliation.Milestones[stat] = thresholds
		}
	}
	config.Records = reconciliation

	if config.DiscordToken == "" {
		return Config{}, fmt.Errorf("COURTSIDE_DISCORD_TOKEN is not set")
	}
	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		// Plain numbers are taken as seconds
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return defaultValue
}

func getEnvIntList(key string, defaultValue []int) []int {
	values := getEnvList(key, nil)
	if len(values) == 0 {
		return defaultValue
	}
	result := make([]int, 0, len(values))
	for _, value := range values {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		result = append(result, parsed)
	}
	return result
}
