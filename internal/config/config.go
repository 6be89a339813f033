package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/repvelocity/internal/kinematics"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AnalysisConfig holds the kinematic pipeline tuning. Zero values fall back
// to the pipeline defaults, so an omitted section behaves like production.
type AnalysisConfig struct {
	VelocityLossThresholdPct float64 `yaml:"velocity_loss_threshold_pct"`
	BaselineReps             int     `yaml:"baseline_reps"`
	GravityWindow            int     `yaml:"gravity_window"`
	DefaultSmoothness        float64 `yaml:"default_smoothness"`
	MinDtSec                 float64 `yaml:"min_dt_sec"`
	MaxDtSec                 float64 `yaml:"max_dt_sec"`
}

// Kinematics converts the analysis section into a pipeline config, filling
// omitted fields from the defaults.
func (a AnalysisConfig) Kinematics() kinematics.Config {
	cfg := kinematics.DefaultConfig()
	if a.VelocityLossThresholdPct > 0 {
		cfg.VelocityLossThresholdPct = a.VelocityLossThresholdPct
	}
	if a.BaselineReps > 0 {
		cfg.BaselineReps = a.BaselineReps
	}
	if a.GravityWindow > 0 {
		cfg.GravityWindow = a.GravityWindow
	}
	if a.DefaultSmoothness > 0 {
		cfg.DefaultSmoothness = a.DefaultSmoothness
	}
	if a.MinDtSec > 0 {
		cfg.MinDt = a.MinDtSec
	}
	if a.MaxDtSec > 0 {
		cfg.MaxDt = a.MaxDtSec
	}
	return cfg
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix REPVELOCITY_ and underscore-separated
// paths:
//
//	REPVELOCITY_SERVER_HOST, REPVELOCITY_SERVER_PORT,
//	REPVELOCITY_DB_HOST, REPVELOCITY_DB_PORT, REPVELOCITY_DB_NAME,
//	REPVELOCITY_DB_USER, REPVELOCITY_DB_PASSWORD, REPVELOCITY_DB_SSLMODE,
//	REPVELOCITY_AUTH_API_KEY, REPVELOCITY_VELOCITY_LOSS_THRESHOLD
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPVELOCITY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPVELOCITY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPVELOCITY_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPVELOCITY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPVELOCITY_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPVELOCITY_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPVELOCITY_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPVELOCITY_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPVELOCITY_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("REPVELOCITY_VELOCITY_LOSS_THRESHOLD"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.VelocityLossThresholdPct = pct
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Analysis.VelocityLossThresholdPct < 0 || c.Analysis.VelocityLossThresholdPct > 100 {
		return fmt.Errorf("analysis.velocity_loss_threshold_pct must be between 0 and 100")
	}
	return nil
}
