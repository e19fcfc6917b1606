package config

import (
	"os"
	"strconv"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string
	// ExpectedRespondents is the assumed respondent count per question,
	// used only by the project-level heuristic completion rate on
	// reports. Per-type completion rates never use it.
	ExpectedRespondents int
	// SessionTTLMinutes bounds how long a respondent survey session
	// stays open in redis.
	SessionTTLMinutes int
}

func Load() *Config {
	return &Config{
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "schoolpulse"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		ExpectedRespondents: getEnvInt("EXPECTED_RESPONDENTS_PER_QUESTION", 10),
		SessionTTLMinutes:   getEnvInt("SESSION_TTL_MINUTES", 60),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}
