package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
	Gate      GateConfig      `yaml:"gate"`
	Notify    NotifyConfig    `yaml:"notify"`
	Chat      ChatConfig      `yaml:"chat"`
}

// SchedulerConfig bounds the interview scheduler.
type SchedulerConfig struct {
	BusinessStart   string `yaml:"business_start"`   // HH:MM, inclusive
	BusinessEnd     string `yaml:"business_end"`     // HH:MM, exclusive
	SlotStepMinutes int    `yaml:"slot_step_minutes"`
	DefaultDuration int    `yaml:"default_duration_minutes"`
	MaxReschedules  int    `yaml:"max_reschedules"`
}

// GateConfig controls the blocking gate. OnLookupFailure decides what happens
// when the company record cannot be found: "allow" favors seeker availability,
// "deny" favors strict enforcement.
type GateConfig struct {
	OnLookupFailure string `yaml:"on_lookup_failure"`
}

type NotifyConfig struct {
	WebhookURL  string        `yaml:"webhook_url"`
	Workers     int           `yaml:"workers"`
	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`
}

type ChatConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("SHIFT_ADDR", ":8080"),
		JWTSecret:     getEnv("SHIFT_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("SHIFT_DATABASE_PATH", "shift.db"),
		TokenDuration: 1 * time.Hour,
		Scheduler: SchedulerConfig{
			BusinessStart:   "09:00",
			BusinessEnd:     "18:00",
			SlotStepMinutes: 30,
			DefaultDuration: 30,
			MaxReschedules:  2,
		},
		Gate: GateConfig{
			OnLookupFailure: getEnv("SHIFT_GATE_ON_LOOKUP_FAILURE", "allow"),
		},
		Notify: NotifyConfig{
			WebhookURL:  getEnv("SHIFT_NOTIFY_WEBHOOK_URL", ""),
			Workers:     2,
			MaxAttempts: 3,
			Timeout:     10 * time.Second,
		},
		Chat: ChatConfig{
			BaseURL: getEnv("SHIFT_CHAT_BASE_URL", ""),
			Timeout: 10 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks fields a running server cannot do without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	switch c.Gate.OnLookupFailure {
	case "allow", "deny":
	default:
		return fmt.Errorf("gate.on_lookup_failure must be allow or deny, got %q", c.Gate.OnLookupFailure)
	}
	if c.Scheduler.BusinessStart >= c.Scheduler.BusinessEnd {
		return fmt.Errorf("scheduler business window %s-%s is empty", c.Scheduler.BusinessStart, c.Scheduler.BusinessEnd)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
