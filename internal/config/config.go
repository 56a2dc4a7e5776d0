package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Chrome    ChromeConfig
	Generator GeneratorConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Charset  string
	// AdminPassword seeds the "admin" account on first start.
	AdminPassword string
}

type JWTConfig struct {
	Secret     string
	ExpireTime int
}

type ChromeConfig struct {
	HeadlessMode bool
	ExecPath     string
	Device       string
}

type GeneratorConfig struct {
	InputFile         string
	OutputFile        string
	StartURL          string
	PolicyFile        string
	LogFile           string
	ElementTimeout    int // seconds
	ClickableTimeout  int
	NavigationTimeout int
	ShutdownGrace     int
	// MaxSessionBytes caps event arrays posted to the public generate endpoint.
	MaxSessionBytes   int
}

type RetentionConfig struct {
	CleanupCron    string
	RecordingHours int
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Mode:         getEnv("SERVER_MODE", "debug"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "3306"),
			Username: getEnv("DB_USERNAME", "root"),
			Password: getEnv("DB_PASSWORD", "root"),
			Database: getEnv("DB_NAME", "selenex"),
			Charset:  getEnv("DB_CHARSET", "utf8mb4"),

			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "selenex-secret-key"),
			ExpireTime: getEnvAsInt("JWT_EXPIRE_TIME", 24*3600),
		},
		Chrome: ChromeConfig{
			HeadlessMode: getEnvAsBool("CHROME_HEADLESS", false),
			ExecPath:     getEnv("CHROME_PATH", ""),
			Device:       getEnv("CHROME_DEVICE", "Desktop 1920x1080"),
		},
		Generator: GeneratorConfig{
			InputFile:         getEnv("SELENEX_INPUT", "session.json"),
			OutputFile:        getEnv("SELENEX_OUTPUT", "test_script.py"),
			StartURL:          getEnv("SELENEX_START_URL", "https://google.com"),
			PolicyFile:        getEnv("SELENEX_POLICY_FILE", ""),
			LogFile:           getEnv("SELENEX_SCRIPT_LOG", "automation.log"),
			ElementTimeout:    getEnvAsInt("SELENEX_ELEMENT_TIMEOUT", 10),
			ClickableTimeout:  getEnvAsInt("SELENEX_CLICKABLE_TIMEOUT", 5),
			NavigationTimeout: getEnvAsInt("SELENEX_NAVIGATION_TIMEOUT", 15),
			ShutdownGrace:     getEnvAsInt("SELENEX_SHUTDOWN_GRACE", 2),
			MaxSessionBytes:   getEnvAsInt("SELENEX_MAX_SESSION_BYTES", 10<<20),
		},
		Retention: RetentionConfig{
			CleanupCron:    getEnv("CLEANUP_CRON", "0 0 * * * *"),
			RecordingHours: getEnvAsInt("RECORDING_RETENTION_HOURS", 24),
		},
	}

	if config.Generator.ElementTimeout <= 0 || config.Generator.NavigationTimeout <= 0 {
		return nil, fmt.Errorf("generator timeouts must be positive")
	}

	return config, nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.Charset,
	)
}

// RetentionWindow is how long an unsaved recording is kept.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.Retention.RecordingHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
