package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env string `yaml:"env"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Quiz struct {
		TTL        string `yaml:"ttl"`
		PassPolicy string `yaml:"pass_policy"`
		MinScore   int    `yaml:"min_score"`
	} `yaml:"quiz"`
	Certificate struct {
		Issuer             string `yaml:"issuer"`
		Workload           string `yaml:"workload"`
		DefaultStudentName string `yaml:"default_student_name"`
		DefaultCourseTitle string `yaml:"default_course_title"`
		Timezone           string `yaml:"timezone"`
	} `yaml:"certificate"`
}

// Load reads YAML config from path, then applies environment overrides. A
// missing file is not an error; an optional .env file is loaded first.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	var cfg Config
	cfg.Env = "local"
	cfg.Log.Level = "info"
	cfg.Server.Port = "8080"
	cfg.RabbitMQ.Exchange = "training.events"
	cfg.Auth.TokenTTL = "24h"
	cfg.Quiz.TTL = "10m"
	cfg.Quiz.PassPolicy = "always"
	cfg.Certificate.Issuer = "Safety Training"
	cfg.Certificate.Workload = "40 hours"
	cfg.Certificate.DefaultStudentName = "Student"
	cfg.Certificate.DefaultCourseTitle = "Safety Training"
	cfg.Certificate.Timezone = "UTC"
	return cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Postgres.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			cfg.Redis.DB = db
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
