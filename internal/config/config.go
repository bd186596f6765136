package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultObjective = "quadratic"
	DefaultDim       = 10
	DefaultTau       = 1.0
	DefaultDt        = 1.0
	DefaultLowBound  = 1e-4
	DefaultHighBound = 1e-3
	DefaultSteps     = 200
)

type Config struct {
	Objective string     `yaml:"objective"`
	Dim       int        `yaml:"dim"`
	Tau       float64    `yaml:"tau"`
	Dt        float64    `yaml:"dt"`
	LowBound  float64    `yaml:"low_bound"`
	HighBound float64    `yaml:"high_bound"`
	Steps     int        `yaml:"steps"`
	Seed      int64      `yaml:"seed"`
	Init      InitConfig `yaml:"init"`
}

type InitConfig struct {
	Values []float64 `yaml:"values"`
	Jitter float64   `yaml:"jitter"`
}

func DefaultConfig() *Config {
	return &Config{
		Objective: DefaultObjective,
		Dim:       DefaultDim,
		Tau:       DefaultTau,
		Dt:        DefaultDt,
		LowBound:  DefaultLowBound,
		HighBound: DefaultHighBound,
		Steps:     DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
