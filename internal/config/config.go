package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
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
	Questions struct {
		File string `yaml:"file"`
	} `yaml:"questions"`
	Game struct {
		HintWindow        string `yaml:"hintWindow"`
		StealWindow       string `yaml:"stealWindow"`
		NextQuestionDelay string `yaml:"nextQuestionDelay"`
		DefaultQuestions  int    `yaml:"defaultQuestions"`
		MaxQuestions      int    `yaml:"maxQuestions"`
		StealScope        string `yaml:"stealScope"` // "session" (default) or "daily"
		ResetTime         string `yaml:"resetTime"`  // "HH:MM" local wall clock
		Timezone          string `yaml:"timezone"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
