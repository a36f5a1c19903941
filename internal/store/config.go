package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Investment    float64 `yaml:"investment"`
	AnalysisYears int     `yaml:"analysis_years"`

	Strategy struct {
		Variant   string  `yaml:"variant"` // STACKED_DMA or MEAN_REVERSION
		Windows   []int   `yaml:"windows"`
		Window    int     `yaml:"window"`     // mean-reversion window
		TargetPct float64 `yaml:"target_pct"` // mean-reversion profit target
	} `yaml:"strategy"`

	Data struct {
		Source      string         `yaml:"source"` // YAHOO, KITE, or CSV
		YahooSuffix string         `yaml:"yahoo_suffix"`
		CSVDir      string         `yaml:"csv_dir"`
		KiteTokens  map[string]int `yaml:"kite_tokens"`
	} `yaml:"data"`

	Universe []string `yaml:"universe"`

	Output struct {
		Dir        string `yaml:"dir"`
		SQLitePath string `yaml:"sqlite_path"` // empty disables the recorder
	} `yaml:"output"`

	Batch struct {
		Workers int    `yaml:"workers"`
		Cron    string `yaml:"cron"` // optional schedule for repeated scans
	} `yaml:"batch"`
}

func (c *Config) Validate() error {
	if c.Investment <= 0 {
		return fmt.Errorf("investment must be positive, got %.2f", c.Investment)
	}
	if c.AnalysisYears <= 0 {
		return fmt.Errorf("analysis_years must be positive, got %d", c.AnalysisYears)
	}
	switch c.Strategy.Variant {
	case "STACKED_DMA":
		if len(c.Strategy.Windows) == 0 {
			return errors.New("strategy.windows cannot be empty for STACKED_DMA")
		}
		for i, w := range c.Strategy.Windows {
			if w <= 0 {
				return fmt.Errorf("strategy.windows[%d] must be positive, got %d", i, w)
			}
			if i > 0 && w <= c.Strategy.Windows[i-1] {
				return errors.New("strategy.windows must be strictly ascending")
			}
		}
	case "MEAN_REVERSION":
		if c.Strategy.Window <= 0 {
			return fmt.Errorf("strategy.window must be positive for MEAN_REVERSION, got %d", c.Strategy.Window)
		}
		if c.Strategy.TargetPct < 0 {
			return fmt.Errorf("strategy.target_pct must not be negative, got %.2f", c.Strategy.TargetPct)
		}
	default:
		return fmt.Errorf("invalid strategy.variant '%s': must be 'STACKED_DMA' or 'MEAN_REVERSION'", c.Strategy.Variant)
	}
	switch c.Data.Source {
	case "YAHOO", "KITE":
	case "CSV":
		if c.Data.CSVDir == "" {
			return errors.New("data.csv_dir required when data.source is CSV")
		}
	default:
		return fmt.Errorf("invalid data.source '%s': must be 'YAHOO', 'KITE', or 'CSV'", c.Data.Source)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Investment == 0 {
		c.Investment = 100000
	}
	if c.AnalysisYears == 0 {
		c.AnalysisYears = 15
	}
	if c.Strategy.Variant == "" {
		c.Strategy.Variant = "STACKED_DMA"
	}
	if c.Strategy.Variant == "STACKED_DMA" && len(c.Strategy.Windows) == 0 {
		c.Strategy.Windows = []int{20, 50, 100, 200}
	}
	if c.Strategy.Variant == "MEAN_REVERSION" && c.Strategy.Window == 0 {
		c.Strategy.Window = 20
	}
	if c.Data.Source == "" {
		c.Data.Source = "YAHOO"
	}
	if c.Data.YahooSuffix == "" {
		c.Data.YahooSuffix = ".NS"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "results"
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = 4
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
