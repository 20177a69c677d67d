package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the full configuration for the verification service
type Config struct {
	Database     DBConfig
	RabbitMQ     MQConfig
	Service      ServiceConfig
	JWT          JWTConfig
	Verification VerificationConfig
}

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	PoolMaxConns int
	PoolMinConns int
}

type MQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type ServiceConfig struct {
	Port     int
	LogLevel string
	LogDir   string
}

type JWTConfig struct {
	Secret        string
	ExpiryMinutes int
}

// VerificationConfig holds the tunables of the quorum and delay engines
type VerificationConfig struct {
	PresenceWindowMinutes int // how recent a ping must be to count a rider as aboard
	IncidentWindowMinutes int // how old an unresolved report may be and still affect delay
	ReminderPollSeconds   int // journey reminder scan interval
	HistoryLookbackDays   int // how far back comparable trips feed the delay estimator
}

// Load reads CONFIG_DIR (default ./config); env vars override file values
func Load() Config {
	configDir := getEnv("CONFIG_DIR", "./config")
	cfg := Config{}

	dbKV, _ := parseYAML(filepath.Join(configDir, "db.yaml"))
	cfg.Database.Host = getStr("DB_HOST", dbKV, "host", "localhost")
	cfg.Database.Port = getInt("DB_PORT", dbKV, "port", 5432)
	cfg.Database.User = getStr("DB_USER", dbKV, "user", "transit_user")
	cfg.Database.Password = getStr("DB_PASSWORD", dbKV, "password", "transit_pass")
	cfg.Database.Database = getStr("DB_NAME", dbKV, "database", "transit_db")
	cfg.Database.SSLMode = getStr("DB_SSLMODE", dbKV, "sslmode", "disable")
	cfg.Database.PoolMaxConns = getInt("DB_POOL_MAX_CONNS", dbKV, "pool_max_conns", 20)
	cfg.Database.PoolMinConns = getInt("DB_POOL_MIN_CONNS", dbKV, "pool_min_conns", 2)

	mqKV, _ := parseYAML(filepath.Join(configDir, "mq.yaml"))
	cfg.RabbitMQ.Host = getStr("RABBITMQ_HOST", mqKV, "host", "localhost")
	cfg.RabbitMQ.Port = getInt("RABBITMQ_PORT", mqKV, "port", 5672)
	cfg.RabbitMQ.User = getStr("RABBITMQ_USER", mqKV, "user", "guest")
	cfg.RabbitMQ.Password = getStr("RABBITMQ_PASSWORD", mqKV, "password", "guest")
	cfg.RabbitMQ.VHost = getStr("RABBITMQ_VHOST", mqKV, "vhost", "/")

	svcKV, _ := parseYAML(filepath.Join(configDir, "service.yaml"))
	cfg.Service.Port = getInt("VERIFICATION_SERVICE_PORT", svcKV, "port", 3002)
	cfg.Service.LogLevel = getStr("LOG_LEVEL", svcKV, "log_level", "info")
	cfg.Service.LogDir = getStr("LOG_DIR", svcKV, "log_dir", "")

	jwtKV, _ := parseYAML(filepath.Join(configDir, "jwt.yaml"))
	cfg.JWT.Secret = getStr("JWT_SECRET", jwtKV, "secret", "dev_secret")
	cfg.JWT.ExpiryMinutes = getInt("JWT_EXPIRY_MINUTES", jwtKV, "expiry_minutes", 60)

	verKV, _ := parseYAML(filepath.Join(configDir, "verification.yaml"))
	cfg.Verification.PresenceWindowMinutes = getInt("PRESENCE_WINDOW_MINUTES", verKV, "presence_window_minutes", 30)
	cfg.Verification.IncidentWindowMinutes = getInt("INCIDENT_WINDOW_MINUTES", verKV, "incident_window_minutes", 30)
	cfg.Verification.ReminderPollSeconds = getInt("REMINDER_POLL_SECONDS", verKV, "reminder_poll_seconds", 60)
	cfg.Verification.HistoryLookbackDays = getInt("HISTORY_LOOKBACK_DAYS", verKV, "history_lookback_days", 7)

	return cfg
}

// parseYAML reads a flat "key: value" YAML file. Nested sections are one
// level deep at most; everything lands in the root section here.
func parseYAML(path string) (map[string]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := map[string]string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if val != "" {
			result[key] = val
		}
	}
	return result, sc.Err()
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getStr(envKey string, kv map[string]string, key, def string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if kv != nil {
		if val, ok := kv[key]; ok && val != "" {
			return val
		}
	}
	return def
}

func getInt(envKey string, kv map[string]string, key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if kv != nil {
		if val, ok := kv[key]; ok && val != "" {
			if n, err := strconv.Atoi(val); err == nil {
				return n
			}
		}
	}
	return def
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AMQPURL returns the RabbitMQ connection URL
func (c MQConfig) AMQPURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}
